// Package web serves the server-rendered pages. Every data call goes
// through the API client with the visitor's token.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"recipebox/auth"
	"recipebox/client"
	"recipebox/middleware"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

var pageNames = []string{"login", "register", "home", "recipe", "create", "saved"}

type Server struct {
	Client       *client.Client
	Tokens       *auth.Tokens
	CookieSecure bool
	Log          *zap.Logger

	pages map[string]*template.Template
}

// view is what the layout renders; pages see only Data.
type view struct {
	LoggedIn bool
	Data     interface{}
}

func New(c *client.Client, tokens *auth.Tokens, cookieSecure bool, log *zap.Logger) (*Server, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(content, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = t
	}
	return &Server{Client: c, Tokens: tokens, CookieSecure: cookieSecure, Log: log, pages: pages}, nil
}

// Handler returns the page router wrapped in the shared middleware.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()

	static, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	router.ServeFiles("/static/*filepath", http.FS(static))

	router.GET("/", s.Root)
	router.GET("/login", s.LoginPage)
	router.POST("/login", s.Login)
	router.GET("/register", s.RegisterPage)
	router.POST("/register", s.Register)
	router.POST("/logout", s.Logout)

	router.GET("/Home", s.guard(s.Home))
	router.POST("/Home/save/:id", s.guard(s.SaveRecipe))
	router.GET("/recipe/:id", s.guard(s.Recipe))
	router.GET("/Create-recipe", s.guard(s.CreatePage))
	router.POST("/Create-recipe", s.guard(s.CreateRecipe))
	router.GET("/savedRecipes", s.guard(s.SavedRecipes))
	router.POST("/savedRecipes/delete/:id", s.guard(s.DeleteSaved))

	return middleware.Chain(router,
		middleware.RecoverMiddleware(s.Log),
		middleware.RequestLogger(s.Log),
		middleware.SecurityHeaders,
	)
}

// render executes into a buffer first so a template error never leaves a
// half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	t, ok := s.pages[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", view{LoggedIn: s.loggedIn(r), Data: data}); err != nil {
		s.Log.Error("render failed", zap.String("page", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
