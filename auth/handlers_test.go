package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipebox/db"
	"recipebox/globals"
	"recipebox/models"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler() (*Handler, *db.MemoryStore) {
	store := db.NewMemoryStore()
	return &Handler{
		Users:  store,
		Tokens: NewTokens("test-secret", 2*time.Hour),
		Log:    zap.NewNop(),
	}, store
}

func call(h httprouter.Handle, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	h(rec, req, nil)
	return rec
}

func tokenCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == globals.TokenCookie {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	h, store := newTestHandler()

	rec := call(h.Register, `{"name":"Ada","email":"ada@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret1")
	assert.NotContains(t, rec.Body.String(), "password")

	var body struct {
		Success bool        `json:"success"`
		User    models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.False(t, body.User.ID.IsZero())

	stored, err := store.UserByEmail(context.Background(), "ada@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.True(t, CheckPassword(stored.Password, "secret1"))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h, store := newTestHandler()
	require.Equal(t, http.StatusCreated, call(h.Register, `{"name":"Ada","email":"ada@x.com","password":"secret1"}`).Code)

	rec := call(h.Register, `{"name":"Ada 2","email":"ADA@x.com","password":"secret2"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"message":"Email already in use"}`, rec.Body.String())

	u, err := store.UserByEmail(context.Background(), "ada@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
}

func TestRegister_Validation(t *testing.T) {
	h, _ := newTestHandler()
	for name, body := range map[string]string{
		"missing name":  `{"email":"ada@x.com","password":"secret1"}`,
		"missing email": `{"name":"Ada","password":"secret1"}`,
		"missing pass":  `{"name":"Ada","email":"ada@x.com"}`,
		"bad email":     `{"name":"Ada","email":"ada","password":"secret1"}`,
		"not json":      `name=Ada`,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, call(h.Register, body).Code)
		})
	}
}

func TestLogin(t *testing.T) {
	h, _ := newTestHandler()
	require.Equal(t, http.StatusCreated, call(h.Register, `{"name":"Ada","email":"ada@x.com","password":"secret1"}`).Code)

	t.Run("correct credentials", func(t *testing.T) {
		rec := call(h.Login, `{"email":"ada@x.com","password":"secret1"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.NotNil(t, resp.User)

		c := tokenCookie(rec)
		require.NotNil(t, c)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, 7200, c.MaxAge)

		claims, err := h.Tokens.Parse(c.Value)
		require.NoError(t, err)
		assert.Equal(t, resp.User.UserID, claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := call(h.Login, `{"email":"ada@x.com","password":"nope"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"Incorrect password"}`, rec.Body.String())
		assert.Nil(t, tokenCookie(rec))
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := call(h.Login, `{"email":"bob@x.com","password":"secret1"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"User not registered"}`, rec.Body.String())
		assert.Nil(t, tokenCookie(rec))
	})
}

func TestLogout_ClearsCookie(t *testing.T) {
	h, _ := newTestHandler()
	rec := call(h.Logout, ``)
	require.Equal(t, http.StatusOK, rec.Code)

	c := tokenCookie(rec)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", TokenFromRequest(r))

	r.AddCookie(&http.Cookie{Name: globals.TokenCookie, Value: "fromcookie"})
	assert.Equal(t, "fromcookie", TokenFromRequest(r))
}
