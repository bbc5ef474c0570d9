package purpleair

import (
	"time"

	"github.com/pkg/errors"
)

func FahrenheitToCelsius(f int64) float64 {
	return (float64(f) - 32.0) * 5.0 / 9.0
}

func TempC(m Measurement) (float64, error) {
	f, err := m.TempF()
	if err != nil {
		return 0, err
	}
	return FahrenheitToCelsius(f), nil
}

func DewPointC(m Measurement) (float64, error) {
	f, err := m.DewPointF()
	if err != nil {
		return 0, err
	}
	return FahrenheitToCelsius(f), nil
}

// ChannelValues holds everything a single laser counter reports.
type ChannelValues struct {
	PM25AQI Value `json:"pm2_5_aqi"`

	// keyed by PmType then PmSize key rendering, e.g. MassATM["2_5"]
	MassATM map[string]Value `json:"mass_atm"`
	MassCF1 map[string]Value `json:"mass_cf_1"`
	Count   map[string]Value `json:"count"`
}

// Mass returns the mass map for typ.
func (c ChannelValues) Mass(typ PmType) map[string]Value {
	if typ == Cf1 {
		return c.MassCF1
	}
	return c.MassATM
}

// Snapshot is a fully evaluated Measurement: every raw field and every derived
// value, read once.
type Snapshot struct {
	SensorID  string    `json:"sensor_id"`
	Timestamp time.Time `json:"timestamp"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	Place     string    `json:"place"`
	RSSI      int64     `json:"rssi"`
	Uptime    uint64    `json:"uptime"`

	TempF     int64   `json:"temp_f"`
	TempC     float64 `json:"temp_c"`
	Humidity  int64   `json:"humidity"`
	DewPointF int64   `json:"dew_point_f"`
	DewPointC float64 `json:"dew_point_c"`
	Pressure  float64 `json:"pressure"`

	ChannelA ChannelValues `json:"channel_a"`
	ChannelB ChannelValues `json:"channel_b"`

	PM25EPACorrection Value `json:"pm2_5_epa_correction"`
	PM25AQIEPA        Value `json:"pm2_5_aqi_epa"`
}

// Channel returns the values read from ch.
func (s *Snapshot) Channel(ch Channel) *ChannelValues {
	if ch == B {
		return &s.ChannelB
	}
	return &s.ChannelA
}

// Evaluate reads every field of m. The first schema violation aborts the
// evaluation; absent values are recorded as such.
func Evaluate(m Measurement) (Snapshot, error) {
	var (
		s   Snapshot
		err error
	)

	if s.SensorID, err = m.SensorID(); err != nil {
		return Snapshot{}, err
	}
	if s.Timestamp, err = m.Timestamp(); err != nil {
		return Snapshot{}, err
	}
	if s.Latitude, err = m.Latitude(); err != nil {
		return Snapshot{}, err
	}
	if s.Longitude, err = m.Longitude(); err != nil {
		return Snapshot{}, err
	}
	if s.Place, err = m.Place(); err != nil {
		return Snapshot{}, err
	}
	if s.RSSI, err = m.RSSI(); err != nil {
		return Snapshot{}, err
	}
	if s.Uptime, err = m.Uptime(); err != nil {
		return Snapshot{}, err
	}
	if s.TempF, err = m.TempF(); err != nil {
		return Snapshot{}, err
	}
	if s.Humidity, err = m.Humidity(); err != nil {
		return Snapshot{}, err
	}
	if s.DewPointF, err = m.DewPointF(); err != nil {
		return Snapshot{}, err
	}
	if s.Pressure, err = m.Pressure(); err != nil {
		return Snapshot{}, err
	}
	s.TempC = FahrenheitToCelsius(s.TempF)
	s.DewPointC = FahrenheitToCelsius(s.DewPointF)

	for _, ch := range Channels {
		values, err := evaluateChannel(m, ch)
		if err != nil {
			return Snapshot{}, errors.Wrapf(err, "channel %s", ch.Name())
		}
		*s.Channel(ch) = values
	}

	if s.PM25EPACorrection, err = PM25EPACorrection(m); err != nil {
		return Snapshot{}, err
	}
	if s.PM25EPACorrection.Valid {
		s.PM25AQIEPA = Present(AQI(s.PM25EPACorrection.Float64))
	}
	return s, nil
}

func evaluateChannel(m Measurement, ch Channel) (ChannelValues, error) {
	values := ChannelValues{
		MassATM: map[string]Value{},
		MassCF1: map[string]Value{},
		Count:   map[string]Value{},
	}

	aqi, err := m.PM25AQI(ch)
	if err != nil {
		return ChannelValues{}, err
	}
	values.PM25AQI = aqi

	for _, size := range PmSizes {
		count, err := m.ParticleCount(size, ch)
		if err != nil {
			return ChannelValues{}, err
		}
		values.Count[size.String()] = count

		if !size.HasMass() {
			continue
		}
		for _, typ := range PmTypes {
			mass, err := m.ParticulateMass(size, typ, ch)
			if err != nil {
				return ChannelValues{}, err
			}
			values.Mass(typ)[size.String()] = mass
		}
	}
	return values, nil
}
