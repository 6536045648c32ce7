package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"borrowbee/internal/auth"
	"borrowbee/internal/config"
	"borrowbee/internal/transport/httpserver/handler"
	authmw "borrowbee/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens *auth.Manager) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSAllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		r.Get("/books", handlers.SearchBooks)
		r.Get("/books/{id}", handlers.GetBook)
		r.Get("/books/{id}/rating/{userId}", handlers.UserRating)
		r.Get("/users/{id}", handlers.GetUser)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth(tokens))

			r.Get("/books/my-books", handlers.MyBooks)
			r.Post("/books", handlers.CreateBook)
			r.Put("/books/{id}", handlers.UpdateBook)
			r.Delete("/books/{id}", handlers.DeleteBook)
			r.Post("/books/{id}/rate", handlers.RateBook)

			r.Post("/books/borrow", handlers.SubmitBorrowRequest)
			r.Get("/requests", handlers.MyRequests)
			r.Get("/borrow-requests", handlers.ListBorrowRequests)
			r.Put("/borrow-requests/{id}/status", handlers.UpdateRequestStatus)

			r.Post("/send-borrow-alert", handlers.SendBorrowAlert)
			r.Put("/users/{id}", handlers.UpdateUser)
		})
	})

	return r
}
