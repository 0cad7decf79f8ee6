package utils

import (
	"encoding/json"
	"net/http"

	"recipebox/apperr"
)

type M map[string]interface{}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, M{"message": msg})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// RespondWithFailure maps err to its status code. Known kinds answer with the
// error text; anything else is a 500 carrying msg and the raw error.
func RespondWithFailure(w http.ResponseWriter, err error, msg string) {
	code := apperr.Status(err)
	if code == http.StatusInternalServerError {
		RespondWithJSON(w, code, M{"message": msg, "error": err.Error()})
		return
	}
	RespondWithError(w, code, err.Error())
}
