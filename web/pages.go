package web

import (
	"net/http"
	"net/url"
	"strings"

	"recipebox/auth"
	"recipebox/client"
	"recipebox/models"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type loginPage struct {
	Email string
	Error string
}

type registerPage struct {
	Name  string
	Email string
	Error string
}

type homeItem struct {
	Recipe models.Recipe
	Saved  bool
}

type homePage struct {
	Query string
	Items []homeItem
	Error string
}

type recipePage struct {
	Recipe   *models.Recipe
	NotFound bool
	Error    string
}

type createPage struct {
	Form  recipeForm
	Error string
}

type savedPage struct {
	Recipes []models.Recipe
	Error   string
}

func (s *Server) Root(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.loggedIn(r) {
		redirect(w, r, "/Home")
		return
	}
	redirect(w, r, "/login")
}

func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.render(w, r, http.StatusOK, "login", loginPage{})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if err := form.check(); err != nil {
		s.render(w, r, http.StatusBadRequest, "login", loginPage{Email: form.Email, Error: err.Error()})
		return
	}

	res, token, err := s.Client.Login(r.Context(), models.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		s.Log.Warn("login call failed", zap.Error(err))
		s.render(w, r, statusFor(err), "login", loginPage{Email: form.Email, Error: client.MessageOf(err)})
		return
	}
	if !res.Success || token == "" {
		s.render(w, r, http.StatusUnauthorized, "login", loginPage{Email: form.Email, Error: res.Message})
		return
	}

	auth.SetTokenCookie(w, token, s.Tokens.TTL(), s.CookieSecure)
	redirect(w, r, "/Home")
}

func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.render(w, r, http.StatusOK, "register", registerPage{})
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	form := registerForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	page := registerPage{Name: form.Name, Email: form.Email}
	if err := form.check(); err != nil {
		page.Error = err.Error()
		s.render(w, r, http.StatusBadRequest, "register", page)
		return
	}

	_, err := s.Client.Register(r.Context(), models.RegisterRequest{Name: form.Name, Email: form.Email, Password: form.Password})
	if err != nil {
		page.Error = client.MessageOf(err)
		s.render(w, r, statusFor(err), "register", page)
		return
	}
	redirect(w, r, "/login")
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := s.Client.Logout(r.Context(), auth.TokenFromRequest(r)); err != nil {
		s.Log.Warn("api logout failed", zap.Error(err))
	}
	auth.ClearTokenCookie(w, s.CookieSecure)
	redirect(w, r, "/login")
}

// Home lists every recipe, filtered by ?q= on the name, and marks the ones
// the visitor already saved.
func (s *Server) Home(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, token := session(r)
	page := homePage{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Error: r.URL.Query().Get("error"),
	}

	var all, saved []models.Recipe
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		all, err = s.Client.ListRecipes(ctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		saved, err = s.Client.SavedRecipes(ctx, token, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		if s.rejected(w, r, err) {
			return
		}
		s.Log.Error("load home failed", zap.Error(err))
		page.Error = client.MessageOf(err)
		s.render(w, r, statusFor(err), "home", page)
		return
	}

	savedIDs := make(map[string]bool, len(saved))
	for _, rec := range saved {
		savedIDs[rec.ID.Hex()] = true
	}
	for _, rec := range filterByName(all, page.Query) {
		page.Items = append(page.Items, homeItem{Recipe: rec, Saved: savedIDs[rec.ID.Hex()]})
	}
	s.render(w, r, http.StatusOK, "home", page)
}

func (s *Server) SaveRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, token := session(r)
	_, err := s.Client.SaveRecipe(r.Context(), token, userID, ps.ByName("id"))
	if err != nil && client.StatusOf(err) != http.StatusConflict {
		if s.rejected(w, r, err) {
			return
		}
		redirect(w, r, "/Home?error="+url.QueryEscape(client.MessageOf(err)))
		return
	}
	redirect(w, r, "/Home")
}

func (s *Server) Recipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, token := session(r)
	rec, err := s.Client.GetRecipe(r.Context(), token, ps.ByName("id"))
	switch {
	case client.StatusOf(err) == http.StatusNotFound:
		s.render(w, r, http.StatusNotFound, "recipe", recipePage{NotFound: true})
	case err != nil:
		if s.rejected(w, r, err) {
			return
		}
		s.render(w, r, statusFor(err), "recipe", recipePage{Error: client.MessageOf(err)})
	default:
		s.render(w, r, http.StatusOK, "recipe", recipePage{Recipe: rec})
	}
}

func (s *Server) CreatePage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.render(w, r, http.StatusOK, "create", createPage{})
}

func (s *Server) CreateRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, token := session(r)
	form := recipeFormFrom(r)

	req, err := form.request(userID)
	if err != nil {
		s.render(w, r, http.StatusBadRequest, "create", createPage{Form: form, Error: err.Error()})
		return
	}

	if _, err := s.Client.CreateRecipe(r.Context(), token, req); err != nil {
		if s.rejected(w, r, err) {
			return
		}
		s.render(w, r, statusFor(err), "create", createPage{Form: form, Error: client.MessageOf(err)})
		return
	}
	redirect(w, r, "/Home")
}

func (s *Server) SavedRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, token := session(r)
	page := savedPage{Error: r.URL.Query().Get("error")}

	recipes, err := s.Client.SavedRecipes(r.Context(), token, userID)
	if err != nil {
		if s.rejected(w, r, err) {
			return
		}
		s.Log.Error("load saved recipes failed", zap.Error(err))
		page.Error = client.MessageOf(err)
		s.render(w, r, statusFor(err), "saved", page)
		return
	}
	page.Recipes = recipes
	s.render(w, r, http.StatusOK, "saved", page)
}

func (s *Server) DeleteSaved(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, token := session(r)
	if _, err := s.Client.DeleteRecipe(r.Context(), token, ps.ByName("id")); err != nil {
		if s.rejected(w, r, err) {
			return
		}
		redirect(w, r, "/savedRecipes?error="+url.QueryEscape(client.MessageOf(err)))
		return
	}
	redirect(w, r, "/savedRecipes")
}

// filterByName keeps recipes whose name contains q, ignoring case.
func filterByName(recipes []models.Recipe, q string) []models.Recipe {
	if q == "" {
		return recipes
	}
	q = strings.ToLower(q)
	var out []models.Recipe
	for _, rec := range recipes {
		if strings.Contains(strings.ToLower(rec.Name), q) {
			out = append(out, rec)
		}
	}
	return out
}

// statusFor picks the page status for a failed API call.
func statusFor(err error) int {
	if status := client.StatusOf(err); status >= 400 {
		return status
	}
	return http.StatusBadGateway
}
