package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightideas/bright-ideas-backend/internal/handlers"
)

// Handlers bundles everything SetupRoutes wires onto the router.
type Handlers struct {
	Ideas  *handlers.IdeaHandler
	Users  *handlers.UserHandler
	Auth   *handlers.AuthHandler
	Upload *handlers.UploadHandler

	// RequireAuth resolves the bearer token to a caller or rejects with 401.
	RequireAuth func(http.Handler) http.Handler
}

func SetupRoutes(r *chi.Mux, h Handlers) {
	// Auth (identity guard surface)
	r.Post("/auth/signup", h.Auth.Signup)
	r.Post("/auth/login", h.Auth.Login)
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Post("/auth/logout", h.Auth.Logout)
		r.Get("/auth/me", h.Auth.Me)
	})

	// Ideas. chi prefers static segments over {id}, so "my-ideas" and
	// "statistics" never get parsed as idea ids.
	r.Get("/ideas", h.Ideas.List)
	r.Get("/ideas/{id}", h.Ideas.Get)
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Post("/ideas", h.Ideas.Create)
		r.Get("/ideas/my-ideas", h.Ideas.MyIdeas)
		r.Get("/ideas/statistics", h.Ideas.Statistics)
		r.Put("/ideas/{id}", h.Ideas.Update)
		r.Delete("/ideas/{id}", h.Ideas.Delete)
		r.Post("/ideas/{id}/like", h.Ideas.ToggleLike)
		r.Post("/ideas/{id}/comment", h.Ideas.AddComment)
		r.Post("/ideas/{id}/report", h.Ideas.Report)
		r.Post("/ideas/{id}/comments/{commentId}/report", h.Ideas.ReportComment)
	})

	// Admin user management
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Get("/users", h.Users.List)
		r.Put("/users/{id}", h.Users.Update)
		r.Delete("/users/{id}", h.Users.Delete)
	})

	// Image upload
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Post("/upload", h.Upload.Upload)
	})
}
