// ABOUTME: Required-field validation shared by every document type
// ABOUTME: Reports the first blank required field as a ValidationError

package content

import (
	"errors"
	"strings"
)

// ErrRequired is wrapped by every ValidationError.
var ErrRequired = errors.New("required field missing")

// ValidationError names the first required field that was left blank.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

func (e *ValidationError) Unwrap() error {
	return ErrRequired
}

// requireFields checks name/value pairs in order and reports the first blank one.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return &ValidationError{Field: pairs[i]}
		}
	}
	return nil
}
