package routes

import (
	"context"
	"net/http"
	"time"

	"recipebox/auth"
	"recipebox/db"
	"recipebox/middleware"
	"recipebox/mq"
	"recipebox/recipes"
	"recipebox/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// API bundles what the REST router needs.
type API struct {
	Store        db.Store
	Tokens       *auth.Tokens
	Events       mq.Emitter
	CookieSecure bool
	CORSOrigins  []string
	Log          *zap.Logger
}

// NewAPIHandler builds the REST router wrapped in the shared middleware.
func NewAPIHandler(api API) http.Handler {
	router := httprouter.New()
	mw := &middleware.Auth{Tokens: api.Tokens}

	AddHealthRoutes(router, api.Store)
	AddAuthRoutes(router, &auth.Handler{
		Users:        api.Store,
		Tokens:       api.Tokens,
		Events:       api.Events,
		CookieSecure: api.CookieSecure,
		Log:          api.Log,
	})
	AddRecipeRoutes(router, mw, &recipes.Handler{
		Recipes: api.Store,
		Users:   api.Store,
		Events:  api.Events,
		Log:     api.Log,
	})

	origins := api.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return middleware.Chain(router,
		middleware.RecoverMiddleware(api.Log),
		middleware.RequestLogger(api.Log),
		middleware.SecurityHeaders,
		c.Handler,
	)
}

func AddHealthRoutes(router *httprouter.Router, store db.Store) {
	router.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			utils.RespondWithJSON(w, http.StatusServiceUnavailable, utils.M{"status": "unavailable", "error": err.Error()})
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "ok"})
	})
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler) {
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)
}

func AddRecipeRoutes(router *httprouter.Router, mw *middleware.Auth, h *recipes.Handler) {
	router.GET("/Home", mw.OptionalAuth(h.GetRecipes))
	router.POST("/Home", mw.Authenticate(h.CreateRecipe))
	router.PUT("/Home", mw.Authenticate(h.SaveRecipe))
	router.GET("/Home/savedRecipes/ids/:UserID", mw.Authenticate(h.GetSavedRecipes))
	router.GET("/Home/recipe/:id", mw.OptionalAuth(h.GetRecipe))
	router.DELETE("/Home/recipe/:id", mw.Authenticate(h.DeleteRecipe))
	router.GET("/savedRecipes/:UserID", mw.Authenticate(h.GetSavedRecipesByIDs))
}
