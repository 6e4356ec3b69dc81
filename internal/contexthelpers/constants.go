package contexthelpers

type contextKey string

const isAuthenticatedContextKey = contextKey("isAuthenticated")
const authenticatedSubjectContextKey = contextKey("authenticatedSubject")
const cspNonceContextKey = contextKey("cspNonce")
