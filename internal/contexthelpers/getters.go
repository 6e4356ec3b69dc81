package contexthelpers

import (
	"context"
)

func IsAuthenticated(ctx context.Context) bool {
	isAuthenticated, ok := ctx.Value(isAuthenticatedContextKey).(bool)
	if !ok {
		return false
	}

	return isAuthenticated
}

// AuthenticatedSubject is the subject claim of the bearer token, typically the bot channel that relays the trainee.
func AuthenticatedSubject(ctx context.Context) string {
	subject, ok := ctx.Value(authenticatedSubjectContextKey).(string)
	if !ok {
		return ""
	}

	return subject
}

func CSPNonce(ctx context.Context) string {
	nonce, ok := ctx.Value(cspNonceContextKey).(string)
	if !ok {
		return ""
	}

	return nonce
}
