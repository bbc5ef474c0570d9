package purpleair

import (
	"time"
)

type PmSize int

const (
	Pm0v3 PmSize = iota
	Pm0v5
	Pm1v0
	Pm2v5
	Pm5v0
	Pm10v0
)

// PmSizes lists every particle size class the device reports counts for.
var PmSizes = [...]PmSize{Pm0v3, Pm0v5, Pm1v0, Pm2v5, Pm5v0, Pm10v0}

// String renders the size the way it appears in device field keys, e.g. "2_5".
func (s PmSize) String() string {
	switch s {
	case Pm0v3:
		return "0_3"
	case Pm0v5:
		return "0_5"
	case Pm1v0:
		return "1_0"
	case Pm2v5:
		return "2_5"
	case Pm5v0:
		return "5_0"
	case Pm10v0:
		return "10_0"
	default:
		return "unknown"
	}
}

// Microns returns the size class in micrometers.
func (s PmSize) Microns() float64 {
	switch s {
	case Pm0v3:
		return 0.3
	case Pm0v5:
		return 0.5
	case Pm1v0:
		return 1.0
	case Pm2v5:
		return 2.5
	case Pm5v0:
		return 5.0
	case Pm10v0:
		return 10.0
	default:
		return 0
	}
}

// HasMass reports whether the device publishes a mass concentration for the size.
// Only counts exist for 0.3, 0.5 and 5.0 µm.
func (s PmSize) HasMass() bool {
	switch s {
	case Pm1v0, Pm2v5, Pm10v0:
		return true
	default:
		return false
	}
}

type PmType int

const (
	Atm PmType = iota
	Cf1
)

var PmTypes = [...]PmType{Atm, Cf1}

func (t PmType) String() string {
	switch t {
	case Atm:
		return "atm"
	case Cf1:
		return "cf_1"
	default:
		return "unknown"
	}
}

type Channel int

const (
	// A is the primary laser counter; its keys carry no suffix.
	A Channel = iota
	// B is the co-located secondary counter.
	B
)

var Channels = [...]Channel{A, B}

// String returns the field key suffix for the channel.
func (c Channel) String() string {
	switch c {
	case B:
		return "_b"
	default:
		return ""
	}
}

// Name returns a human readable channel name, used for metric labels.
func (c Channel) Name() string {
	switch c {
	case B:
		return "b"
	default:
		return "a"
	}
}

// Measurement is a single reading taken from a PurpleAir device.
//
// Implementations only provide raw field access. Everything derived from the
// raw fields (unit conversions, AQI, EPA correction) lives in this package as
// free functions so every source gets the same math.
//
// Accessors return a *SchemaError when the backing data does not have the
// expected shape. Per-channel accessors return an Absent Value when the
// device simply does not report the requested combination.
type Measurement interface {
	SensorID() (string, error)
	Timestamp() (time.Time, error)
	Latitude() (float64, error)
	Longitude() (float64, error)
	// indoor or outdoor
	Place() (string, error)
	// units: dBm
	RSSI() (int64, error)
	// units: seconds
	Uptime() (uint64, error)
	// units: degrees Fahrenheit
	TempF() (int64, error)
	// units: % of relative Humidity
	Humidity() (int64, error)
	// units: degrees Fahrenheit
	DewPointF() (int64, error)
	// units: mbar
	Pressure() (float64, error)

	PM25AQI(channel Channel) (Value, error)
	// units: µg/m3
	ParticulateMass(size PmSize, typ PmType, channel Channel) (Value, error)
	// units: particles per deciliter
	ParticleCount(size PmSize, channel Channel) (Value, error)
}
