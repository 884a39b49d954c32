package availability

import (
	"context"
	"errors"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/infra/lock"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/integrations/tourapi"
)

var (
	// ErrValidation некорректные входные данные, обнаружено до обращения к API
	ErrValidation = errors.New("availability: validation error")

	// ErrConflict нарушение бизнес-правила, требующее текущего состояния слота
	ErrConflict = errors.New("availability: conflict")

	// ErrNotFound слот не найден у гида
	ErrNotFound = errors.New("availability: slot not found")

	// ErrForbidden сессия принадлежит другому гиду
	ErrForbidden = errors.New("availability: forbidden")

	// ErrRemote API ответил success:false или ошибочным статусом
	ErrRemote = errors.New("availability: remote error")

	// ErrNetwork запрос к API не удалось выполнить
	ErrNetwork = errors.New("availability: network error")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)

// Сообщения для пользователя
const (
	MsgDeleteWithTourists = "Cannot delete availability with tourists"
	MsgCapacityLocked     = "Cannot change group size of availability with tourists"
	MsgDuplicateSlot      = "Availability already exists for this date and time"
	MsgInProgress         = "Request already in progress"
	MsgNotFound           = "Availability not found"
	MsgNoChanges          = "No fields to update"
	MsgNetwork            = "Unable to reach the server. Please try again"
	MsgInvalidResponse    = "Unexpected response from the server"
	MsgInternal           = "Something went wrong. Please try again"
	MsgSessionMismatch    = "Session does not belong to this guide"

	MsgCreated = "Availability created successfully"
	MsgUpdated = "Availability updated successfully"
	MsgDeleted = "Availability deleted successfully"
	MsgEnabled = "Availability enabled"
	MsgHidden  = "Availability hidden from booking"
	MsgStale   = "Showing last synced availability"
)

// Error ошибка операции с классом и сообщением для пользователя.
// errors.Is сопоставляет её с сентинелом своего класса.
type Error struct {
	Kind    domain.ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return kindSentinel(e.Kind) == target
}

func kindSentinel(kind domain.ErrorKind) error {
	switch kind {
	case domain.KindValidation:
		return ErrValidation
	case domain.KindConflict:
		return ErrConflict
	case domain.KindNotFound:
		return ErrNotFound
	case domain.KindForbidden:
		return ErrForbidden
	case domain.KindRemote:
		return ErrRemote
	case domain.KindNetwork:
		return ErrNetwork
	default:
		return ErrInternal
	}
}

func validationError(message string) *Error {
	return &Error{Kind: domain.KindValidation, Message: message}
}

func conflictError(message string) *Error {
	return &Error{Kind: domain.KindConflict, Message: message}
}

// classify приводит любую ошибку к *Error
func classify(err error) *Error {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr
	}

	var remote *tourapi.RemoteError
	if errors.As(err, &remote) {
		return &Error{Kind: domain.KindRemote, Message: remote.Message, Err: err}
	}

	switch {
	case errors.Is(err, lock.ErrInFlight):
		return &Error{Kind: domain.KindConflict, Message: MsgInProgress, Err: err}
	case errors.Is(err, tourapi.ErrNetwork),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return &Error{Kind: domain.KindNetwork, Message: MsgNetwork, Err: err}
	case errors.Is(err, tourapi.ErrInvalidResponse):
		return &Error{Kind: domain.KindRemote, Message: MsgInvalidResponse, Err: err}
	default:
		return &Error{Kind: domain.KindInternal, Message: MsgInternal, Err: err}
	}
}
