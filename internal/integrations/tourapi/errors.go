package tourapi

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork возвращается, когда запрос не удалось выполнить (таймаут, соединение и т.д.)
	ErrNetwork = errors.New("tourapi client: network error")

	// ErrRemote возвращается, когда API ответил success:false или не-2xx статусом
	ErrRemote = errors.New("tourapi client: remote error")

	// ErrInvalidResponse возвращается при некорректном ответе от API
	ErrInvalidResponse = errors.New("tourapi client: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("tourapi client: internal error")
)

// RemoteError ошибка, о которой сообщил сам API. Message передаётся пользователю как есть
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%v: status=%d message=%q", ErrRemote, e.StatusCode, e.Message)
}

// Unwrap позволяет проверять errors.Is(err, ErrRemote)
func (e *RemoteError) Unwrap() error {
	return ErrRemote
}
