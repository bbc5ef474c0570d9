package purpleair

import (
	"encoding/json"
	"strconv"
)

// Value is a float reading that may be absent, in the spirit of sql.NullFloat64.
// Absence is a normal domain outcome (e.g. no mass reported for 0.3 µm), not an error.
type Value struct {
	Float64 float64
	Valid   bool
}

// Absent is the zero Value.
var Absent = Value{}

func Present(v float64) Value {
	return Value{Float64: v, Valid: true}
}

func (v Value) Get() (float64, bool) {
	return v.Float64, v.Valid
}

func (v Value) String() string {
	if !v.Valid {
		return "absent"
	}
	return strconv.FormatFloat(v.Float64, 'g', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float64)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Absent
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Present(f)
	return nil
}
