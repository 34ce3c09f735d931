package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(authHandler *AuthHandler, postHandler *PostHandler, authenticator *Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Server is running"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Server is running"})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(authenticator.Authenticate)
				r.Post("/logout-all", authHandler.LogoutAll)
				r.Get("/tokens", authHandler.Sessions)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Use(authenticator.Authenticate)
			r.Get("/", postHandler.List)
			r.Post("/", postHandler.Create)
			r.Put("/{id}", postHandler.Update)
			r.Delete("/{id}", postHandler.Delete)
			r.Post("/{id}/like", postHandler.ToggleLike)
			r.Post("/{id}/comment", postHandler.AddComment)
			r.Delete("/{postID}/comment/{commentID}", postHandler.DeleteComment)
		})
	})

	return r
}
