// internal/auth/context.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const (
	principalKey = contextKey("principal")
	sessionIDKey = contextKey("sessionID")
)

// Сохраняет пользователя (id и роль) в контексте
func WithUser(ctx context.Context, userID string, role model.Role) context.Context {
	return context.WithValue(ctx, principalKey, access.Principal{UserID: userID, Role: role})
}

// Достает пользователя из контекста
func PrincipalFromContext(ctx context.Context) (access.Principal, error) {
	p, ok := ctx.Value(principalKey).(access.Principal)
	if !ok || p.UserID == "" {
		return access.Principal{}, fmt.Errorf("user not found in context: %w", access.ErrUnauthenticated)
	}
	return p, nil
}

func GetUserIDFromContext(ctx context.Context) (string, error) {
	p, err := PrincipalFromContext(ctx)
	if err != nil {
		return "", err
	}
	return p.UserID, nil
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sessionIDKey).(string)
	return sid, ok && sid != ""
}

type Claims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionChecker сообщает, жива ли сессия (после logout токен перестает работать)
type SessionChecker interface {
	Active(sessionID string) bool
}

type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

func (t *Tokens) Issue(user *model.User, sessionID string) (string, error) {
	if len(t.secret) == 0 {
		return "", fmt.Errorf("JWT secret not set")
	}

	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Role:      user.Role.String(),
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (t *Tokens) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Middleware извлекает пользователя из JWT и помещает его в context.
// Запросы без токена или с невалидным токеном проходят как анонимные.
func (t *Tokens) Middleware(sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractTokenFromHeader(r.Header.Get("Authorization"))
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			if len(t.secret) == 0 {
				http.Error(w, "JWT secret not set", http.StatusInternalServerError)
				return
			}

			claims, err := t.Parse(tokenStr)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if sessions != nil && !sessions.Active(claims.SessionID) {
				next.ServeHTTP(w, r) // сессия завершена через logout
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, model.Role(claims.Role))
			ctx = WithSessionID(ctx, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractTokenFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
