// Package contexthelpers stores request-scoped values that templates and handlers need.
package contexthelpers

import (
	"context"
	"net/http"
)

type contextKey string

const (
	currentPathContextKey = contextKey("currentPath")
	csrfTokenContextKey   = contextKey("csrfToken")
	cspNonceContextKey    = contextKey("cspNonce")
	sessionHashContextKey = contextKey("sessionHash")
)

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentPathContextKey, currentPath))
}

func SetCSRFToken(r *http.Request, csrfToken string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), csrfTokenContextKey, csrfToken))
}

func SetCSPNonce(r *http.Request, nonce string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), cspNonceContextKey, nonce))
}

// SetSessionHash stores the hashed player ID. The raw ID never leaves the session.
func SetSessionHash(r *http.Request, hash string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionHashContextKey, hash))
}

func CurrentPath(ctx context.Context) string {
	currentPath, _ := ctx.Value(currentPathContextKey).(string)
	return currentPath
}

func CSRFToken(ctx context.Context) string {
	csrfToken, _ := ctx.Value(csrfTokenContextKey).(string)
	return csrfToken
}

func CSPNonce(ctx context.Context) string {
	nonce, _ := ctx.Value(cspNonceContextKey).(string)
	return nonce
}

func SessionHash(ctx context.Context) string {
	hash, _ := ctx.Value(sessionHashContextKey).(string)
	return hash
}
