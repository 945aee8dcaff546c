package utils

import (
	"context"
)

type contextKey string

const (
	TokenKey     contextKey = "token"
	SessionIDKey contextKey = "session_id"
	EmailKey     contextKey = "email"
)

// GetTokenFromContext returns the backend access token of the signed-in admin.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	tokenVal := ctx.Value(TokenKey)
	if tokenVal == nil {
		return "", false
	}

	token, ok := tokenVal.(string)
	return token, ok && token != ""
}

// SetTokenContext stores the backend access token for downstream backend calls.
func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}

// GetSessionIDFromContext returns the console session id (the cookie's jti).
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(SessionIDKey)
	if val == nil {
		return "", false
	}

	id, ok := val.(string)
	return id, ok
}

func GetEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// SetSessionContext stores who is signed in and under which console session.
func SetSessionContext(ctx context.Context, sessionID, email string) context.Context {
	ctx = context.WithValue(ctx, SessionIDKey, sessionID)
	ctx = context.WithValue(ctx, EmailKey, email)
	return ctx
}
