package gateway

import (
    "fmt"
    "strings"
)

// ValidationError reports required request fields that were empty or an
// unresolvable payment instrument. It is always returned before any
// network call is made.
type ValidationError struct {
    MissingFields []string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("missing required parameters: %s", strings.Join(e.MissingFields, ", "))
}

func newValidationError(fields ...string) *ValidationError {
    return &ValidationError{MissingFields: fields}
}
