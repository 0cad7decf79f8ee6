package globals

type contextKey string

const (
	UserIDKey    contextKey = "userId"
	RequestIDKey contextKey = "requestId"
)

// TokenCookie is the name of the HTTP-only cookie carrying the signed JWT.
const TokenCookie = "token"
