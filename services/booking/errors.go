package booking

import "fmt"

// ValidationUnavailableError marks a collaborator failure during a validation
// pass: the booking could not be checked, which is distinct from the booking
// being invalid. The UI must offer a retry, never an "invalid booking" notice.
type ValidationUnavailableError struct {
	Op  string
	Err error
}

func (e *ValidationUnavailableError) Error() string {
	return fmt.Sprintf("unable to validate booking (%s): %v", e.Op, e.Err)
}

func (e *ValidationUnavailableError) Unwrap() error {
	return e.Err
}

// NewValidationUnavailableError wraps a repository or network failure.
func NewValidationUnavailableError(op string, err error) error {
	return &ValidationUnavailableError{Op: op, Err: err}
}
