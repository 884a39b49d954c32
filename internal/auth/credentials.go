package auth

import (
	"context"
	"net/http"
)

// Credentials данные сессии пользователя, которые пробрасываются во внешний API
type Credentials struct {
	GuideID   string
	Cookies   []*http.Cookie
	RequestID string
}

type credentialsKey struct{}

// WithCredentials кладёт данные сессии в контекст
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// FromContext достаёт данные сессии из контекста
func FromContext(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(credentialsKey{}).(Credentials)
	return creds, ok
}
