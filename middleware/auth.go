package middleware

import (
	"net/http"

	"recipebox/auth"
	"recipebox/utils"

	"github.com/julienschmidt/httprouter"
)

// Auth gates handlers on a verified token.
type Auth struct {
	Tokens *auth.Tokens
}

// Authenticate rejects requests without a valid token: 401 when none is
// sent, 403 when it does not verify. The user ID lands in the context.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		raw := auth.TokenFromRequest(r)
		if raw == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing token")
			return
		}
		claims, err := a.Tokens.Parse(raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}
		next(w, r.WithContext(utils.WithUserID(r.Context(), claims.UserID)), ps)
	}
}

// OptionalAuth attaches the identity when a valid token is present.
func (a *Auth) OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, err := a.Tokens.Parse(auth.TokenFromRequest(r)); err == nil {
			r = r.WithContext(utils.WithUserID(r.Context(), claims.UserID))
		}
		next(w, r, ps)
	}
}
