package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/palaverhq/palaver/internal/database"
	"github.com/palaverhq/palaver/internal/web/handlers"
	"github.com/palaverhq/palaver/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	db       *database.DB
	port     int
	bind     string
	router   *chi.Mux
	handlers *handlers.Handlers
}

// NewServer creates a new web server
func NewServer(db *database.DB, port int, bind string) *Server {
	s := &Server{
		db:     db,
		port:   port,
		bind:   bind,
		router: chi.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	h := handlers.New(s.db)
	s.handlers = h

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Get("/users", h.ListUsers)
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", h.GetUser)
			r.Patch("/", h.ModifyUser)
			r.Delete("/", h.RemoveUser)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", h.ListPosts)
			r.Post("/", h.CreatePost)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetPost)
				r.Patch("/", h.ModifyPost)
				r.Delete("/", h.RemovePost)
				r.Get("/tags", h.GetPostTags)
				r.Put("/tags", h.ReplacePostTags)
				r.Post("/tags", h.LinkTag)
				r.Delete("/tags/{tagID}", h.UnlinkTag)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.ListTags)
			r.Post("/", h.CreateTag)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetTag)
				r.Patch("/", h.ModifyTag)
				r.Delete("/", h.RemoveTag)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", h.ListComments)
			r.Post("/", h.CreateComment)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetComment)
				r.Patch("/", h.ModifyComment)
				r.Delete("/", h.RemoveComment)
			})
		})
	})
}

// Router returns the configured router; tests mount it directly.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	var addr string
	if s.bind != "" {
		addr = fmt.Sprintf("%s:%d", s.bind, s.port)
	} else {
		addr = fmt.Sprintf(":%d", s.port)
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
