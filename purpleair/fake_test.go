package purpleair

import (
	"fmt"
	"time"
)

// fakeMeasurement is an in-memory Measurement. Per-channel values are keyed the
// way the LAN firmware names them.
type fakeMeasurement struct {
	tempF    int64
	humidity int64
	dewF     int64
	values   map[string]float64
	failKey  string
}

func newFakeMeasurement() *fakeMeasurement {
	return &fakeMeasurement{
		tempF:    68,
		humidity: 40,
		dewF:     43,
		values: map[string]float64{
			"pm2.5_aqi":    42,
			"pm2.5_aqi_b":  44,
			"pm2_5_cf_1":   10.0,
			"pm2_5_cf_1_b": 12.0,
			"pm2_5_atm":    9.5,
			"pm2_5_atm_b":  11.5,
			"p_0_3_um":     1200.0,
			"p_0_3_um_b":   1180.0,
		},
	}
}

func (f *fakeMeasurement) check(key string) error {
	if key == f.failKey {
		return &SchemaError{Key: key, Missing: true}
	}
	return nil
}

func (f *fakeMeasurement) lookup(key string) (Value, error) {
	if err := f.check(key); err != nil {
		return Absent, err
	}
	if v, ok := f.values[key]; ok {
		return Present(v), nil
	}
	return Absent, nil
}

func (f *fakeMeasurement) SensorID() (string, error) { return "84:f3:eb:00:00:01", f.check("SensorId") }
func (f *fakeMeasurement) Timestamp() (time.Time, error) {
	return time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC), f.check("DateTime")
}
func (f *fakeMeasurement) Latitude() (float64, error)  { return 47.6, f.check("lat") }
func (f *fakeMeasurement) Longitude() (float64, error) { return -122.3, f.check("lon") }
func (f *fakeMeasurement) Place() (string, error)      { return "outside", f.check("place") }
func (f *fakeMeasurement) RSSI() (int64, error)        { return -61, f.check("rssi") }
func (f *fakeMeasurement) Uptime() (uint64, error)     { return 3600, f.check("uptime") }
func (f *fakeMeasurement) TempF() (int64, error)       { return f.tempF, f.check("current_temp_f") }
func (f *fakeMeasurement) Humidity() (int64, error)    { return f.humidity, f.check("current_humidity") }
func (f *fakeMeasurement) DewPointF() (int64, error)   { return f.dewF, f.check("current_dewpoint_f") }
func (f *fakeMeasurement) Pressure() (float64, error)  { return 1012.5, f.check("pressure") }

func (f *fakeMeasurement) PM25AQI(ch Channel) (Value, error) {
	return f.lookup("pm2.5_aqi" + ch.String())
}

func (f *fakeMeasurement) ParticulateMass(size PmSize, typ PmType, ch Channel) (Value, error) {
	if !size.HasMass() {
		return Absent, nil
	}
	return f.lookup(fmt.Sprintf("pm%s_%s%s", size, typ, ch))
}

func (f *fakeMeasurement) ParticleCount(size PmSize, ch Channel) (Value, error) {
	return f.lookup(fmt.Sprintf("p_%s_um%s", size, ch))
}
