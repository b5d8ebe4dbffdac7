package engine

import (
	"errors"
	"fmt"
)

// Kind classifies an engine rejection. Rejections never mutate state.
type Kind int

const (
	// IllegalAction: the action is not valid in the current phase or for
	// the submitting player.
	IllegalAction Kind = iota + 1
	// InsufficientFunds: a voluntary debit exceeds available cash.
	InsufficientFunds
	// InvalidTarget: tile index out of range or of the wrong type.
	InvalidTarget
	// NotFound: unknown player or object.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case IllegalAction:
		return "illegal action"
	case InsufficientFunds:
		return "insufficient funds"
	case InvalidTarget:
		return "invalid target"
	case NotFound:
		return "not found"
	}
	return "unknown"
}

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

func illegal(format string, args ...interface{}) error {
	return &Error{Kind: IllegalAction, Msg: fmt.Sprintf(format, args...)}
}

func insufficient(format string, args ...interface{}) error {
	return &Error{Kind: InsufficientFunds, Msg: fmt.Sprintf(format, args...)}
}

func invalidTarget(format string, args ...interface{}) error {
	return &Error{Kind: InvalidTarget, Msg: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...interface{}) error {
	return &Error{Kind: NotFound, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the engine error kind, or 0 for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
