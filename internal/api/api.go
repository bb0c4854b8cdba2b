// Package api sets up and starts the API
// server with routing, middleware, and Swagger documentation.
package api

import (
	"fmt"
	"net/http"

	_ "github.com/matt-dz/platefeed/docs"
	"github.com/matt-dz/platefeed/internal/api/middleware"
	"github.com/matt-dz/platefeed/internal/api/routes/auth"
	"github.com/matt-dz/platefeed/internal/api/routes/ingredients"
	"github.com/matt-dz/platefeed/internal/api/routes/ping"
	"github.com/matt-dz/platefeed/internal/api/routes/recipes"
	"github.com/matt-dz/platefeed/internal/api/routes/tags"
	"github.com/matt-dz/platefeed/internal/api/routes/users"
	"github.com/matt-dz/platefeed/internal/env"
	"github.com/matt-dz/platefeed/internal/role"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const (
	serverPort = 8080
)

func addDocs(r *chi.Mux, serverAddr string) {
	swagger := httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s/api/swagger/doc.json", serverAddr)),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)

	r.Mount("/api/swagger", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// Handle preflight
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Allow GET to serve Swagger
		if req.Method == http.MethodGet {
			swagger.ServeHTTP(w, req)
			return
		}

		// Block anything else
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}))
}

func addRoutes(router *chi.Mux) {
	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.HandlePing)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", auth.HandleLogin)
			r.Post("/session", auth.HandleRefreshSession)
			r.With(middleware.OptionalUser).Post("/logout", auth.HandleLogout)
		})

		r.Get("/tags", tags.HandleListTags)
		r.Get("/tags/{tagID}", tags.HandleGetTag)

		r.Get("/ingredients", ingredients.HandleListIngredients)
		r.Get("/ingredients/{ingredientID}", ingredients.HandleGetIngredient)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", users.HandleCreateUser)
			r.With(middleware.OptionalUser).Get("/", users.HandleListUsers)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser(role.RoleUser))

				r.Get("/me", users.HandleGetMe)
				r.Get("/subscriptions", users.HandleListSubscriptions)
				r.Post("/{userID}/subscribe", users.HandleSubscribe)
				r.Delete("/{userID}/subscribe", users.HandleUnsubscribe)
			})

			r.With(middleware.OptionalUser).Get("/{userID}", users.HandleGetUser)
			r.With(middleware.RequireUser(role.RoleAdmin)).Delete("/{userID}", users.HandleDeleteUser)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.With(middleware.OptionalUser).Get("/", recipes.HandleListRecipes)
			r.With(middleware.OptionalUser).Get("/{recipeID}", recipes.HandleGetRecipe)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser(role.RoleUser))

				r.Post("/", recipes.HandleCreateRecipe)
				r.Patch("/{recipeID}", recipes.HandleUpdateRecipe)
				r.Delete("/{recipeID}", recipes.HandleDeleteRecipe)

				r.Get("/download_shopping_cart", recipes.HandleDownloadShoppingCart)
				r.Post("/{recipeID}/favorite", recipes.HandleAddFavorite)
				r.Delete("/{recipeID}/favorite", recipes.HandleRemoveFavorite)
				r.Post("/{recipeID}/shopping_cart", recipes.HandleAddToCart)
				r.Delete("/{recipeID}/shopping_cart", recipes.HandleRemoveFromCart)
			})
		})
	})
}

// addFiles serves stored recipe images from the filestore volume.
func addFiles(router *chi.Mux, e *env.Env) {
	fileServer := http.StripPrefix("/files/", http.FileServer(http.Dir(e.FileStore.BaseDirectory())))
	router.Handle("/files/*", fileServer)
}

// Start godoc
//
//	@title						Platefeed API
//	@version					1.0
//	@description				API Server for the Platefeed application.
//
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						access
//
//	@host						localhost:8080
//	@BasePath					/api
func Start(env *env.Env) error {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.AddCors)

	addRoutes(router)
	addFiles(router, env)
	addDocs(router, fmt.Sprintf("0.0.0.0:%d", serverPort))
	http.Handle("/", router)

	env.Logger.Info(fmt.Sprintf("Listening at 0.0.0.0:%d", serverPort))
	env.Logger.Info(fmt.Sprintf("Swagger UI available at http://0.0.0.0:%d/api/swagger/index.html", serverPort))
	return http.ListenAndServe(fmt.Sprintf(":%d", serverPort), nil)
}
