package purpleair

import (
	"math"

	"github.com/pkg/errors"
)

type breakpoint struct {
	low, high int
}

// PM2.5 breakpoints in tenths of µg/m3, see https://en.wikipedia.org/wiki/Air_quality_index
var concentrationLimits = [...]breakpoint{
	{0, 120},
	{121, 354},
	{355, 554},
	{555, 1504},
	{1505, 2504},
	{2505, 3504},
	{3505, 5004},
}

var aqiLimits = [len(concentrationLimits)]breakpoint{
	{0, 50},
	{51, 100},
	{101, 150},
	{151, 200},
	{201, 300},
	{301, 400},
	{401, 500},
}

// AQI converts a PM2.5 concentration (µg/m3) to the US EPA Air Quality Index.
//
// The breakpoint table has gaps between buckets at the first decimal (12.0 vs
// 12.1), so the concentration is truncated to tenths before picking a bucket.
// Concentrations above the table extrapolate along the last bucket, with the
// tenths saturating at the int32 range so huge readings stay positive.
func AQI(pm25 float64) float64 {
	if math.IsNaN(pm25) {
		return math.NaN()
	}
	tenths := int(math.Max(math.Min(10.0*pm25, math.MaxInt32), math.MinInt32))

	idx := len(concentrationLimits) - 1
	for i, limit := range concentrationLimits {
		if tenths >= limit.low && tenths <= limit.high {
			idx = i
			break
		}
	}

	cLow := float64(concentrationLimits[idx].low) / 10.0
	cHigh := float64(concentrationLimits[idx].high) / 10.0
	iLow := float64(aqiLimits[idx].low)
	iHigh := float64(aqiLimits[idx].high)
	c := float64(tenths) / 10.0
	return (iHigh-iLow)*(c-cLow)/(cHigh-cLow) + iLow
}

// EPACorrection applies the US EPA correction for PurpleAir sensors to the
// CF=1 PM2.5 readings of both channels.
//
// Ref: https://cfpub.epa.gov/si/si_public_record_report.cfm?Lab=CEMM&dirEntryId=349513
// The equation is the one on page 8 of the report. The report recommends 1-hour
// averages as input; this works on a single instantaneous reading.
func EPACorrection(pm25Cf1A, pm25Cf1B float64, humidity int64) float64 {
	mean := (pm25Cf1A + pm25Cf1B) / 2.0
	// near-zero concentration with high humidity goes negative
	return math.Max(0, 0.52*mean-0.085*float64(humidity)+5.71)
}

// PM25EPACorrection returns the EPA corrected PM2.5 concentration of m.
// It is absent unless both channels report a CF=1 PM2.5 mass.
func PM25EPACorrection(m Measurement) (Value, error) {
	var cf1 [len(Channels)]float64
	for i, ch := range Channels {
		v, err := m.ParticulateMass(Pm2v5, Cf1, ch)
		if err != nil {
			return Absent, err
		}
		if !v.Valid {
			return Absent, nil
		}
		cf1[i] = v.Float64
	}

	humidity, err := m.Humidity()
	if err != nil {
		return Absent, errors.Wrap(err, "epa correction")
	}
	return Present(EPACorrection(cf1[0], cf1[1], humidity)), nil
}

// PM25AQIEPA returns the AQI of the EPA corrected PM2.5 concentration.
func PM25AQIEPA(m Measurement) (Value, error) {
	corrected, err := PM25EPACorrection(m)
	if err != nil || !corrected.Valid {
		return Absent, err
	}
	return Present(AQI(corrected.Float64)), nil
}
