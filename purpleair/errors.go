package purpleair

import (
	"fmt"

	"github.com/pkg/errors"
)

// SchemaError reports that a device document broke its fixed shape: a field
// is missing, holds the wrong kind of value, or cannot be parsed. The reading
// it came from cannot be trusted and should be dropped as a whole.
type SchemaError struct {
	Key     string
	Want    string
	Got     interface{}
	Missing bool
	Err     error
}

func (e *SchemaError) Error() string {
	switch {
	case e.Missing:
		return fmt.Sprintf("purpleair: document is missing key %q", e.Key)
	case e.Err != nil:
		return fmt.Sprintf("purpleair: %s is not a valid %s (got %v): %s", e.Key, e.Want, e.Got, e.Err)
	default:
		return fmt.Sprintf("purpleair: %s is not a %s, got: %#v", e.Key, e.Want, e.Got)
	}
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// IsSchemaError reports whether err, or anything it wraps, is a *SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}
