package lock

import "errors"

var (
	// ErrInFlight возвращается, когда такая же операция уже выполняется
	ErrInFlight = errors.New("lock: request already in progress")

	// ErrBackend возвращается при ошибке хранилища блокировок
	ErrBackend = errors.New("lock: backend error")
)
