package web

import (
	"net/http"

	"recipebox/auth"
	"recipebox/client"
	"recipebox/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// guard lets the page render only with a token that verifies; everything
// else goes to /login.
func (s *Server) guard(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := s.Tokens.Parse(auth.TokenFromRequest(r))
		if err != nil {
			redirect(w, r, "/login")
			return
		}
		next(w, r.WithContext(utils.WithUserID(r.Context(), claims.UserID)), ps)
	}
}

func (s *Server) loggedIn(r *http.Request) bool {
	if utils.GetUserIDFromContext(r.Context()) != "" {
		return true
	}
	_, err := s.Tokens.Parse(auth.TokenFromRequest(r))
	return err == nil
}

// session returns the verified user ID and the raw token to forward.
func session(r *http.Request) (userID, token string) {
	return utils.GetUserIDFromContext(r.Context()), auth.TokenFromRequest(r)
}

// rejected handles an API answer that says the session is no longer good.
func (s *Server) rejected(w http.ResponseWriter, r *http.Request, err error) bool {
	switch client.StatusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		s.Log.Info("api rejected session", zap.Error(err))
		auth.ClearTokenCookie(w, s.CookieSecure)
		redirect(w, r, "/login")
		return true
	}
	return false
}
