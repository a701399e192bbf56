// Package errs classifies the failures the shell reports to the user.
package errs

import (
	"errors"
	"fmt"
)

// Kind is the category of a user-facing failure.
type Kind int

const (
	// KindValidation is a malformed argument. The user may retry.
	KindValidation Kind = iota + 1
	// KindNotFound is an unknown command or an unmatched selector.
	KindNotFound
	// KindCollaborator is a failed persistence call.
	KindCollaborator
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindCollaborator:
		return "collaborator"
	default:
		return "unknown"
	}
}

// Error carries a Kind alongside the message shown in the transcript.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Op != "" && e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Collaborator wraps a persistence failure for operation op. Errors that are
// already classified pass through unchanged.
func Collaborator(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := KindOf(err); ok {
		return err
	}
	return &Error{Kind: KindCollaborator, Op: op, Err: err}
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func IsValidation(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindValidation
}

func IsNotFound(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindNotFound
}
