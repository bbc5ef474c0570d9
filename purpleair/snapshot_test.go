package purpleair

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFahrenheitToCelsius(t *testing.T) {
	assert.Equal(t, 0.0, FahrenheitToCelsius(32))
	assert.Equal(t, 100.0, FahrenheitToCelsius(212))
	assert.InDelta(t, -40.0, FahrenheitToCelsius(-40), 1e-12)
}

func TestTempAndDewPoint(t *testing.T) {
	m := newFakeMeasurement()
	m.tempF = 212
	m.dewF = 32

	c, err := TempC(m)
	require.NoError(t, err)
	assert.Equal(t, 100.0, c)

	dew, err := DewPointC(m)
	require.NoError(t, err)
	assert.Equal(t, 0.0, dew)

	m.failKey = "current_temp_f"
	_, err = TempC(m)
	assert.True(t, IsSchemaError(err))
}

func TestPmSize(t *testing.T) {
	keys := make([]string, 0, len(PmSizes))
	for _, size := range PmSizes {
		keys = append(keys, size.String())
	}
	assert.Equal(t, []string{"0_3", "0_5", "1_0", "2_5", "5_0", "10_0"}, keys)

	assert.False(t, Pm0v3.HasMass())
	assert.False(t, Pm0v5.HasMass())
	assert.False(t, Pm5v0.HasMass())
	assert.True(t, Pm1v0.HasMass())
	assert.True(t, Pm2v5.HasMass())
	assert.True(t, Pm10v0.HasMass())
	assert.Equal(t, 2.5, Pm2v5.Microns())
}

func TestChannelAndTypeRendering(t *testing.T) {
	assert.Equal(t, "", A.String())
	assert.Equal(t, "_b", B.String())
	assert.Equal(t, "a", A.Name())
	assert.Equal(t, "b", B.Name())
	assert.Equal(t, "atm", Atm.String())
	assert.Equal(t, "cf_1", Cf1.String())
}

func TestValueJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Value `json:"a"`
		B Value `json:"b"`
	}{Present(1.5), Absent})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(data))

	var decoded struct {
		A Value `json:"a"`
		B Value `json:"b"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Present(1.5), decoded.A)
	assert.Equal(t, Absent, decoded.B)
	assert.Equal(t, "absent", decoded.B.String())
}

func TestEvaluate(t *testing.T) {
	m := newFakeMeasurement()

	s, err := Evaluate(m)
	require.NoError(t, err)

	assert.Equal(t, "84:f3:eb:00:00:01", s.SensorID)
	assert.Equal(t, time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC), s.Timestamp)
	assert.Equal(t, int64(68), s.TempF)
	assert.InDelta(t, 20.0, s.TempC, 1e-9)
	assert.Equal(t, int64(-61), s.RSSI)
	assert.Equal(t, uint64(3600), s.Uptime)

	assert.Equal(t, Present(42), s.ChannelA.PM25AQI)
	assert.Equal(t, Present(44), s.ChannelB.PM25AQI)
	assert.Equal(t, Present(10.0), s.ChannelA.MassCF1["2_5"])
	assert.Equal(t, Present(11.5), s.ChannelB.MassATM["2_5"])
	assert.Equal(t, Present(1200.0), s.ChannelA.Count["0_3"])
	assert.False(t, s.ChannelA.Count["10_0"].Valid)

	_, hasMass := s.ChannelA.MassATM["0_3"]
	assert.False(t, hasMass, "no mass is reported for 0.3um")

	require.True(t, s.PM25EPACorrection.Valid)
	assert.InDelta(t, EPACorrection(10, 12, 40), s.PM25EPACorrection.Float64, 1e-9)
	assert.InDelta(t, AQI(s.PM25EPACorrection.Float64), s.PM25AQIEPA.Float64, 1e-9)
}

func TestEvaluate_SingleChannel(t *testing.T) {
	m := newFakeMeasurement()
	for key := range m.values {
		if len(key) > 2 && key[len(key)-2:] == "_b" {
			delete(m.values, key)
		}
	}

	s, err := Evaluate(m)
	require.NoError(t, err)
	assert.False(t, s.ChannelB.PM25AQI.Valid)
	assert.False(t, s.PM25EPACorrection.Valid)
	assert.False(t, s.PM25AQIEPA.Valid)
}

func TestEvaluate_SchemaError(t *testing.T) {
	m := newFakeMeasurement()
	m.failKey = "p_2_5_um_b"

	_, err := Evaluate(m)
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
	assert.Contains(t, err.Error(), "channel b")
}
