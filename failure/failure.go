// Package failure holds the error kinds returned by every stage of the
// still-gif pipeline.
package failure

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	Unknown Kind = iota
	Decode
	Encoding
	Configuration
)

func (k Kind) String() string {
	switch k {
	case Decode:
		return "decode"
	case Encoding:
		return "encoding"
	case Configuration:
		return "configuration"
	}
	return "unknown"
}

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrDecode        = &Error{Kind: Decode}
	ErrEncoding      = &Error{Kind: Encoding}
	ErrConfiguration = &Error{Kind: Configuration}
)

// Error is a failure of one pipeline stage.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Newf(kind Kind, op string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	msg := e.Kind.String() + " error"
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
