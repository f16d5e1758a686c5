package internal

import "fmt"

// CascadeError wraps the failure of one sub-step of a cascading delete.
type CascadeError struct {
	Entity string
	Step   string
	ID     string
	Err    error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("delete %s %s: %s: %v", e.Entity, e.ID, e.Step, e.Err)
}

func (e *CascadeError) Unwrap() error {
	return e.Err
}

// AppError reports which step failed without leaking the cause.
func (e *CascadeError) AppError() *AppError {
	return NewInternalError(fmt.Sprintf("Failed to delete %s", e.Entity), e).
		WithDetails(map[string]string{"step": e.Step})
}
