package auth

import (
	"errors"
	"net/http"

	"recipebox/apperr"
	"recipebox/db"
	"recipebox/models"
	"recipebox/mq"
	"recipebox/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Handler serves register, login and logout.
type Handler struct {
	Users        db.UserStore
	Tokens       *Tokens
	Events       mq.Emitter
	CookieSecure bool
	Log          *zap.Logger
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req models.RegisterRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithFailure(w, err, "All fields are required")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		utils.RespondWithFailure(w, err, "Error registering user")
		return
	}

	user := &models.User{Name: req.Name, Email: req.Email, Password: hash}
	if err := h.Users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			utils.RespondWithError(w, http.StatusConflict, "Email already in use")
			return
		}
		h.Log.Error("register failed", zap.Error(err))
		utils.RespondWithFailure(w, err, "Error registering user")
		return
	}

	mq.Notify(r.Context(), h.Events, h.Log, mq.UserCreated, mq.Index{EntityType: "user", Method: "POST", EntityId: user.ID.Hex()})
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req models.LoginRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithFailure(w, err, "Email and password are required")
		return
	}

	user, err := h.Users.UserByEmail(r.Context(), req.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		utils.RespondWithJSON(w, http.StatusOK, models.LoginResponse{Success: false, Message: "User not registered"})
		return
	}
	if err != nil {
		h.Log.Error("login lookup failed", zap.Error(err))
		utils.RespondWithFailure(w, err, "Error logging in")
		return
	}

	if !CheckPassword(user.Password, req.Password) {
		utils.RespondWithJSON(w, http.StatusOK, models.LoginResponse{Success: false, Message: "Incorrect password"})
		return
	}

	token, _, err := h.Tokens.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		utils.RespondWithFailure(w, err, "Error logging in")
		return
	}

	SetTokenCookie(w, token, h.Tokens.TTL(), h.CookieSecure)
	utils.RespondWithJSON(w, http.StatusOK, models.LoginResponse{
		Success: true,
		Message: "Login successful",
		User:    &models.LoginUser{UserID: user.ID.Hex()},
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ClearTokenCookie(w, h.CookieSecure)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Logged out successfully"})
}
