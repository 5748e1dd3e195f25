package batch

import "fmt"

// FatalPreconditionError aborts the whole run before any record is touched.
type FatalPreconditionError struct {
	Reason string
	Err    error
}

func (e *FatalPreconditionError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *FatalPreconditionError) Unwrap() error { return e.Err }

// PanicError is a panic recovered from a record stage.
type PanicError struct {
	Stage string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic during %s: %v", e.Stage, e.Value)
}
