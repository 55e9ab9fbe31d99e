package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	model "github.com/glkeru/rewear/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Принципал запроса - только из проверенного токена, роль клиента не принимается
type Principal struct {
	ID   uuid.UUID
	Role model.Role
}

type ctxKey int

const principalKey ctxKey = iota

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// Проверка Bearer токена (HMAC), принципал кладется в контекст запроса
func MiddlewareAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Bearer token is required", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Token validation failed", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "Token validation failed", http.StatusUnauthorized)
				return
			}
			sub, _ := claims["sub"].(string)
			id, err := uuid.Parse(sub)
			if err != nil {
				http.Error(w, "Token validation failed", http.StatusUnauthorized)
				return
			}
			role, _ := claims["role"].(string)
			if role == "" {
				role = string(model.RoleUser)
			}

			ctx := context.WithValue(r.Context(), principalKey, Principal{id, model.Role(role)})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
