package transfer

import "strings"

// SuccessOrError collects diagnostics from a validation path that should
// report every violation instead of stopping at the first. The zero value is
// a success.
type SuccessOrError struct {
	errorMessages []string
}

// NewSuccessOrError builds a result from any number of error messages; with
// none, the result is a success.
func NewSuccessOrError(errorMessages ...string) SuccessOrError {
	return SuccessOrError{errorMessages: append([]string(nil), errorMessages...)}
}

// Add appends one more error message, turning the result into a failure.
func (s *SuccessOrError) Add(message string) {
	s.errorMessages = append(s.errorMessages, message)
}

func (s SuccessOrError) Ok() bool {
	return len(s.errorMessages) == 0
}

func (s SuccessOrError) Fail() bool {
	return !s.Ok()
}

// AsErrorMessage joins all collected messages for diagnostics. Empty on
// success.
func (s SuccessOrError) AsErrorMessage() string {
	return strings.Join(s.errorMessages, " / ")
}
