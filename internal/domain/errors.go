package domain

import "errors"

var (
	// ErrInvalidTimeRange возвращается, если время начала не раньше времени окончания
	ErrInvalidTimeRange = errors.New("start time must be before end time")

	// ErrInvalidDate возвращается при некорректной дате слота
	ErrInvalidDate = errors.New("invalid slot date")
)

// ErrorKind класс ошибки на границе Mutation Gateway
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindNotFound   ErrorKind = "not_found"
	KindForbidden  ErrorKind = "forbidden"
	KindRemote     ErrorKind = "remote"
	KindNetwork    ErrorKind = "network"
	KindInternal   ErrorKind = "internal"
)
