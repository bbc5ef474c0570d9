package lan

import (
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/alepar/purpleair/purpleair"
)

// Kind is the runtime type a caller expects a document field to hold.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindUint
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "f64"
	case KindInt:
		return "i64"
	case KindUint:
		return "u64"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Document is the flat key-value body a PurpleAir device serves at /json.
// Numbers decoded by ParseDocument are kept as json.Number so that integer and
// float literals can be told apart.
type Document map[string]interface{}

// ParseDocument decodes a single flat JSON object.
func ParseDocument(r io.Reader) (Document, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode sensor json")
	}
	doc, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &purpleair.SchemaError{Key: "<root>", Want: "object", Got: raw}
	}
	return Document(doc), nil
}

// Get returns the value stored under key if it holds the expected kind.
//
// PurpleAir LAN JSON is expected to be extremely consistent, so a missing key
// or a kind mismatch is reported as a *purpleair.SchemaError and nothing is
// ever coerced.
func (d Document) Get(key string, kind Kind) (interface{}, error) {
	value, ok, err := d.Lookup(key, kind)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &purpleair.SchemaError{Key: key, Want: kind.String(), Missing: true}
	}
	return value, nil
}

// Lookup is Get for fields the device may legitimately omit: a missing key
// yields ok == false and no error, a kind mismatch is still a schema error.
func (d Document) Lookup(key string, kind Kind) (interface{}, bool, error) {
	value, ok := d[key]
	if !ok {
		return nil, false, nil
	}
	if !isKind(value, kind) {
		return nil, false, &purpleair.SchemaError{Key: key, Want: kind.String(), Got: value}
	}
	return value, true, nil
}

func (d Document) GetString(key string) (string, error) {
	value, err := d.Get(key, KindString)
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

func (d Document) GetFloat64(key string) (float64, error) {
	value, err := d.Get(key, KindFloat)
	if err != nil {
		return 0, err
	}
	return asFloat64(value), nil
}

func (d Document) GetInt64(key string) (int64, error) {
	value, err := d.Get(key, KindInt)
	if err != nil {
		return 0, err
	}
	return asInt64(value), nil
}

func (d Document) GetUint64(key string) (uint64, error) {
	value, err := d.Get(key, KindUint)
	if err != nil {
		return 0, err
	}
	return asUint64(value), nil
}

// LookupFloat64 is the optional form of GetFloat64.
func (d Document) LookupFloat64(key string) (purpleair.Value, error) {
	value, ok, err := d.Lookup(key, KindFloat)
	if err != nil || !ok {
		return purpleair.Absent, err
	}
	return purpleair.Present(asFloat64(value)), nil
}

// LookupInt64 is the optional form of GetInt64, widened to a float Value.
func (d Document) LookupInt64(key string) (purpleair.Value, error) {
	value, ok, err := d.Lookup(key, KindInt)
	if err != nil || !ok {
		return purpleair.Absent, err
	}
	return purpleair.Present(float64(asInt64(value))), nil
}

func isKind(value interface{}, kind Kind) bool {
	switch v := value.(type) {
	case string:
		return kind == KindString
	case json.Number:
		return numberIsKind(v, kind)
	case float64, float32:
		return kind == KindFloat
	case int:
		return kind == KindInt || (kind == KindUint && v >= 0)
	case int8:
		return kind == KindInt || (kind == KindUint && v >= 0)
	case int16:
		return kind == KindInt || (kind == KindUint && v >= 0)
	case int32:
		return kind == KindInt || (kind == KindUint && v >= 0)
	case int64:
		return kind == KindInt || (kind == KindUint && v >= 0)
	case uint, uint8, uint16, uint32:
		return kind == KindInt || kind == KindUint
	case uint64:
		return kind == KindUint || (kind == KindInt && v <= math.MaxInt64)
	default:
		return false
	}
}

func numberIsKind(n json.Number, kind Kind) bool {
	literal := n.String()
	if strings.ContainsAny(literal, ".eE") {
		if kind != KindFloat {
			return false
		}
		_, err := n.Float64()
		return err == nil
	}
	switch kind {
	case KindInt:
		_, err := strconv.ParseInt(literal, 10, 64)
		return err == nil
	case KindUint:
		_, err := strconv.ParseUint(literal, 10, 64)
		return err == nil
	default:
		return false
	}
}

// The as* helpers assume isKind already accepted the value.

func asFloat64(value interface{}) float64 {
	switch v := value.(type) {
	case json.Number:
		f, _ := v.Float64()
		return f
	case float32:
		return float64(v)
	default:
		return value.(float64)
	}
}

func asInt64(value interface{}) int64 {
	switch v := value.(type) {
	case json.Number:
		i, _ := strconv.ParseInt(v.String(), 10, 64)
		return i
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	default:
		return value.(int64)
	}
}

func asUint64(value interface{}) uint64 {
	switch v := value.(type) {
	case json.Number:
		u, _ := strconv.ParseUint(v.String(), 10, 64)
		return u
	case int:
		return uint64(v)
	case int8:
		return uint64(v)
	case int16:
		return uint64(v)
	case int32:
		return uint64(v)
	case int64:
		return uint64(v)
	case uint:
		return uint64(v)
	case uint8:
		return uint64(v)
	case uint16:
		return uint64(v)
	case uint32:
		return uint64(v)
	default:
		return value.(uint64)
	}
}
