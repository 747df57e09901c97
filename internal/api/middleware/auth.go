// Пакет middleware — промежуточные обработчики HTTP: аутентификация,
// логирование запросов и метрики.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apierrors "github.com/bigkaa/golibrary/internal/api/errors"
	"github.com/bigkaa/golibrary/internal/config"
)

type contextKey string

// usernameKey — ключ контекста с именем аутентифицированного пользователя.
const usernameKey contextKey = "username"

// BasicAuth — middleware HTTP Basic аутентификации.
// Пароли хранятся в виде bcrypt-хэшей, вычисленных при старте.
type BasicAuth struct {
	hashes map[string][]byte
	logger *slog.Logger
}

// NewBasicAuth создает middleware аутентификации из списка учетных записей.
// Пароли хэшируются сразу, чтобы не держать их в памяти открытым текстом.
func NewBasicAuth(users []config.Credential, logger *slog.Logger) (*BasicAuth, error) {
	hashes := make(map[string][]byte, len(users))
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("хэширование пароля пользователя %s: %w", u.Username, err)
		}
		hashes[u.Username] = hash
	}
	return &BasicAuth{
		hashes: hashes,
		logger: logger.With(slog.String("component", "auth")),
	}, nil
}

// Middleware проверяет заголовок Authorization. Пути из excludePaths
// (префиксное сравнение) пропускаются без проверки.
func (a *BasicAuth) Middleware(excludePaths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range excludePaths {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			username, password, ok := r.BasicAuth()
			if !ok {
				a.unauthorized(w, r, "не передан заголовок Authorization")
				return
			}

			hash, exists := a.hashes[username]
			if !exists {
				a.unauthorized(w, r, "неизвестный пользователь")
				return
			}
			if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
				a.unauthorized(w, r, "неверный пароль")
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *BasicAuth) unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	a.logger.Warn("Отказ в доступе",
		slog.String("path", r.URL.Path),
		slog.String("reason", reason),
	)
	w.Header().Set("WWW-Authenticate", `Basic realm="library", charset="UTF-8"`)
	apierrors.Unauthorized(w, "требуется аутентификация")
}

// UsernameFromContext возвращает имя пользователя, установленное middleware.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}
