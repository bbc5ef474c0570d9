package lan

import (
	"fmt"
	"strings"
	"time"

	"github.com/alepar/purpleair/purpleair"
)

// Measurement is a reading served by the device's local /json endpoint.
type Measurement struct {
	doc Document
}

var _ purpleair.Measurement = (*Measurement)(nil)

func NewMeasurement(doc Document) *Measurement {
	return &Measurement{doc: doc}
}

func (m *Measurement) SensorID() (string, error) {
	return m.doc.GetString("SensorId")
}

// Timestamp parses DateTime, which the firmware renders like
// "2021/01/02T03:04:05z".
func (m *Measurement) Timestamp() (time.Time, error) {
	raw, err := m.doc.GetString("DateTime")
	if err != nil {
		return time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339, normalizeDateTime(raw))
	if err != nil {
		return time.Time{}, &purpleair.SchemaError{Key: "DateTime", Want: "RFC 3339 timestamp", Got: raw, Err: err}
	}
	return ts.UTC(), nil
}

func normalizeDateTime(raw string) string {
	s := strings.ReplaceAll(strings.ToUpper(raw), "/", "-")
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	return s
}

func (m *Measurement) Latitude() (float64, error) {
	return m.doc.GetFloat64("lat")
}

func (m *Measurement) Longitude() (float64, error) {
	return m.doc.GetFloat64("lon")
}

func (m *Measurement) Place() (string, error) {
	return m.doc.GetString("place")
}

func (m *Measurement) RSSI() (int64, error) {
	return m.doc.GetInt64("rssi")
}

func (m *Measurement) Uptime() (uint64, error) {
	return m.doc.GetUint64("uptime")
}

func (m *Measurement) TempF() (int64, error) {
	return m.doc.GetInt64("current_temp_f")
}

func (m *Measurement) Humidity() (int64, error) {
	return m.doc.GetInt64("current_humidity")
}

func (m *Measurement) DewPointF() (int64, error) {
	return m.doc.GetInt64("current_dewpoint_f")
}

func (m *Measurement) Pressure() (float64, error) {
	return m.doc.GetFloat64("pressure")
}

// Per-channel fields are optional: single-counter models have no "_b" keys.

func (m *Measurement) PM25AQI(channel purpleair.Channel) (purpleair.Value, error) {
	return m.doc.LookupInt64("pm2.5_aqi" + channel.String())
}

func (m *Measurement) ParticulateMass(size purpleair.PmSize, typ purpleair.PmType, channel purpleair.Channel) (purpleair.Value, error) {
	if !size.HasMass() {
		return purpleair.Absent, nil
	}
	key := fmt.Sprintf("pm%s_%s%s", size, typ, channel)
	return m.doc.LookupFloat64(key)
}

func (m *Measurement) ParticleCount(size purpleair.PmSize, channel purpleair.Channel) (purpleair.Value, error) {
	key := fmt.Sprintf("p_%s_um%s", size, channel)
	return m.doc.LookupFloat64(key)
}
