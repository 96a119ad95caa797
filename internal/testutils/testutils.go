package testutils

import (
	"context"
	"net/http"
	"time"

	"estatehub/internal/auth"

	"github.com/go-chi/chi/v5"
)

// WithChiURLParams подставляет параметры пути в контекст chi запроса для тестов.
func WithChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for k, v := range params {
		chiCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// WithUser делает запрос аутентифицированным без выпуска токена.
func WithUser(req *http.Request, userID, role string) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: userID, Role: role}))
}

// Clock - управляемые часы для тестов
type Clock struct {
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time { return c.now }

func (c *Clock) Set(t time.Time) { c.now = t }

func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Ptr возвращает указатель на значение
func Ptr[T any](v T) *T {
	return &v
}
