// Package middleware provides HTTP middleware for authentication.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// Context keys for the verified member identity.
const (
	emailKey ContextKey = "email"
	nameKey  ContextKey = "name"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (EmailGetter, error)
}

// EmailGetter exposes the verified email carried by token claims.
type EmailGetter interface {
	GetEmail() string
}

// NameGetter is implemented by claims that may carry a display name.
type NameGetter interface {
	GetName() string
}

// AuthMiddleware creates middleware that validates bearer tokens and adds
// the verified email to the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				unauthorized(w)
				return
			}

			email := strings.TrimSpace(claims.GetEmail())
			if email == "" {
				unauthorized(w)
				return
			}

			ctx := WithEmail(r.Context(), email)
			if named, ok := claims.(NameGetter); ok {
				if name := strings.TrimSpace(named.GetName()); name != "" {
					ctx = WithName(ctx, name)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from a "Bearer <token>" header. The scheme
// is case-insensitive.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}

// WithEmail returns a context carrying the verified email.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// GetEmail extracts the verified email from the request context.
func GetEmail(r *http.Request) (string, error) {
	email, ok := r.Context().Value(emailKey).(string)
	if !ok || email == "" {
		return "", fmt.Errorf("email not found in request context")
	}
	return email, nil
}

// WithName returns a context carrying the member's display name.
func WithName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, nameKey, name)
}

// GetName returns the display name from the request context, or "" when the
// token carried none.
func GetName(r *http.Request) string {
	name, _ := r.Context().Value(nameKey).(string)
	return name
}
