package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error so controllers can map it to an HTTP status
// without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidInput
	KindForbidden
	KindConflict
	KindExternalConfig
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) error       { return &Error{Kind: KindNotFound, Msg: msg} }
func InvalidInput(msg string) error   { return &Error{Kind: KindInvalidInput, Msg: msg} }
func Forbidden(msg string) error      { return &Error{Kind: KindForbidden, Msg: msg} }
func Conflict(msg string) error       { return &Error{Kind: KindConflict, Msg: msg} }
func ExternalConfig(msg string) error { return &Error{Kind: KindExternalConfig, Msg: msg} }

func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of err, or KindUnknown for plain errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}
