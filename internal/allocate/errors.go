// Package allocate selects and orders bullets across all roles under a total
// line budget.
package allocate

import "fmt"

// Error represents an error that occurs during allocation
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
