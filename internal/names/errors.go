package names

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// NameError reports a referenced name that is absent, duplicated names within
// one tensor, or a name count that does not match the rank.
type NameError struct {
	Op  string
	Msg string
}

func (e *NameError) Error() string {
	return e.Op + ": name error: " + e.Msg
}

// AlignmentError reports name sets of two or more tensors that are
// incompatible for the requested merge or alignment.
type AlignmentError struct {
	Op  string
	Msg string
}

func (e *AlignmentError) Error() string {
	return e.Op + ": alignment error: " + e.Msg
}

// StateError reports an activation or deactivation requested while already in
// that state.
type StateError struct {
	Op  string
	Msg string
}

func (e *StateError) Error() string {
	return e.Op + ": state error: " + e.Msg
}

// NameErrorf returns a *NameError, annotated with the caller's stack.
func NameErrorf(op, format string, args ...any) error {
	return errors.WithStack(&NameError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// AlignmentErrorf returns an *AlignmentError, annotated with the caller's stack.
func AlignmentErrorf(op, format string, args ...any) error {
	return errors.WithStack(&AlignmentError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// StateErrorf returns a *StateError, annotated with the caller's stack.
func StateErrorf(op, format string, args ...any) error {
	return errors.WithStack(&StateError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// IsNameError reports whether err wraps a *NameError.
func IsNameError(err error) bool {
	var target *NameError
	return stderrors.As(err, &target)
}

// IsAlignmentError reports whether err wraps an *AlignmentError.
func IsAlignmentError(err error) bool {
	var target *AlignmentError
	return stderrors.As(err, &target)
}

// IsStateError reports whether err wraps a *StateError.
func IsStateError(err error) bool {
	var target *StateError
	return stderrors.As(err, &target)
}
