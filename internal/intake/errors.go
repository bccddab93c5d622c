package intake

import (
	"errors"
	"fmt"
)

// ErrMissingField is the base error for all required-field validation
// failures; handlers map it to 400.
var ErrMissingField = errors.New("missing required field")

func missingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}
