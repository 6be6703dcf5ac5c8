package sync

import (
	"errors"

	"github.com/ndbelov/planner/internal/event"
	"github.com/ndbelov/planner/internal/store"
)

// Kind classifies a user-visible failure of the sync flow.
type Kind string

const (
	KindAuthRequired       Kind = "auth-required"
	KindPermissionDenied   Kind = "permission-denied"
	KindUnavailable        Kind = "unavailable"
	KindUnauthenticated    Kind = "unauthenticated"
	KindPreconditionFailed Kind = "precondition-failed"
	KindNotFound           Kind = "not-found"
	KindValidationFailed   Kind = "validation-failed"
	KindUnknown            Kind = "unknown"
)

// messages are the product-facing contract: one fixed phrase per kind,
// distinct so tests can assert on the kind rather than the text.
var messages = map[Kind]string{
	KindAuthRequired:       "Пользователь не авторизован",
	KindPermissionDenied:   "Нет доступа к событиям. Проверьте настройки хранилища.",
	KindUnavailable:        "База данных временно недоступна. Попробуйте позже.",
	KindUnauthenticated:    "Требуется авторизация. Войдите в аккаунт.",
	KindPreconditionFailed: "Требуется создание индекса в базе данных. Обратитесь к администратору.",
	KindNotFound:           "Событие не найдено",
	KindValidationFailed:   "Пожалуйста, заполните обязательные поля",
	KindUnknown:            "Не удалось выполнить операцию. Попробуйте ещё раз.",
}

// Error is a sync-flow failure with a fixed user-facing message.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Kind.Message() }

func (e *Error) Unwrap() error { return e.Err }

// Message returns the fixed user-facing phrase of a kind.
func (k Kind) Message() string {
	if m, ok := messages[k]; ok {
		return m
	}
	return messages[KindUnknown]
}

// KindOf extracts the failure kind from an error chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// mapError translates lower-level failures into the taxonomy. Validation
// errors are detected first: they come from the draft, never the store.
func mapError(err error) *Error {
	var ve *event.ValidationError
	if errors.As(err, &ve) {
		return newError(KindValidationFailed, err)
	}

	var se *store.Error
	if !errors.As(err, &se) {
		return newError(KindUnknown, err)
	}
	switch se.Code {
	case store.CodePermissionDenied:
		return newError(KindPermissionDenied, err)
	case store.CodeUnavailable:
		return newError(KindUnavailable, err)
	case store.CodeUnauthenticated:
		return newError(KindUnauthenticated, err)
	case store.CodeFailedPrecondition:
		return newError(KindPreconditionFailed, err)
	case store.CodeNotFound:
		return newError(KindNotFound, err)
	default:
		return newError(KindUnknown, err)
	}
}
