package usecase

import (
	"errors"
	"fmt"
)

// ErrorKind は業務エラーの分類。HTTPステータスへの変換はhandler側の責務。
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindValidation        ErrorKind = "validation"
	KindDuplicateIdentity ErrorKind = "duplicate_identity"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, message string) error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func notFound(message string) error          { return NewError(KindNotFound, message) }
func insufficientStock(message string) error { return NewError(KindInsufficientStock, message) }
func invalid(message string) error           { return NewError(KindValidation, message) }
func duplicateIdentity(message string) error { return NewError(KindDuplicateIdentity, message) }
