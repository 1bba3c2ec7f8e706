package world

import (
	"errors"
	"fmt"

	"github.com/npezzotti/aqevia/internal/database"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	default:
		return "internal"
	}
}

// Error is the error type returned by every Service operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrCharacterNotFound      = &Error{Kind: KindNotFound, Message: "character not found"}
	ErrRoomNotFound           = &Error{Kind: KindNotFound, Message: "room not found"}
	ErrItemNotFound           = &Error{Kind: KindNotFound, Message: "item not found"}
	ErrUserNotFound           = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrNoSuchExit             = &Error{Kind: KindNotFound, Message: "no such exit"}
	ErrNotInAnyRoom           = &Error{Kind: KindValidation, Message: "character is not in any room"}
	ErrDuplicateExit          = &Error{Kind: KindValidation, Message: "exit name already used in this room"}
	ErrItemNotInCharacterRoom = &Error{Kind: KindConflict, Message: "item is not in the character's room"}
	ErrItemNotHeld            = &Error{Kind: KindConflict, Message: "item is not held by the character"}
	ErrRoomInUse              = &Error{Kind: KindConflict, Message: "room is still referenced"}
	ErrCharacterInUse         = &Error{Kind: KindConflict, Message: "character holds items and is in no room"}
	ErrConcurrentUpdate       = &Error{Kind: KindConflict, Message: "concurrent update, try again"}
	ErrUsernameTaken          = &Error{Kind: KindConflict, Message: "username already taken"}
	ErrInvalidCredentials     = &Error{Kind: KindAuth, Message: "invalid username or password"}
)

func NewValidationError(err error) *Error {
	return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
}

func validationf(format string, a ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, a...)}
}

func internalError(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the Kind of the first *Error in err's chain, or
// KindInternal if there is none.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindInternal
}

// notFound maps a store miss onto the given domain error and wraps anything
// else as internal.
func notFound(err error, nf *Error, op string) error {
	if errors.Is(err, database.ErrNotFound) {
		return nf
	}
	return internalError(op, err)
}
