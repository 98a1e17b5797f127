package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			// Session routes
			r.Post("/chats", apiHandler.CreateChatHandler)
			r.Get("/chats", apiHandler.ListChatsHandler)
			r.Delete("/chats", apiHandler.ClearChatsHandler)
			r.Get("/chats/{chatID}", apiHandler.GetChatDetailsHandler)
			r.Post("/chats/{chatID}/select", apiHandler.SelectChatHandler)
			r.Delete("/chats/{chatID}", apiHandler.DeleteChatHandler)

			// Exchange routes
			r.Post("/chats/{chatID}/messages", apiHandler.PostMessageHandler)
			r.Put("/chats/{chatID}/messages/{messageID}", apiHandler.EditMessageHandler)

			// Context data routes
			r.Post("/context", apiHandler.UploadContextHandler)
			r.Get("/context", apiHandler.ContextSummaryHandler)
		})
	})

	return r
}
