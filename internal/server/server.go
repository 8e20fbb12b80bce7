// Package server wires handlers, middleware, and routes together and owns
// the HTTP server lifecycle.
//
// This is the composition root: main.go hands in config and a logger, and
// everything else (database, services, handlers) is assembled here. The
// handlers never touch the database and the services never touch HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/record-crate/internal/auth"
	"github.com/sakif/record-crate/internal/handler"
	"github.com/sakif/record-crate/internal/middleware"
	sqliteRepo "github.com/sakif/record-crate/internal/repository/sqlite"
	"github.com/sakif/record-crate/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
	ImagesDir string
}

// Server holds the router and the resources it owns. The database
// connection is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the database, builds the service and handler
// layers, and registers every route.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// Middleware used below. RequireAdmin always runs after RequireAuth so
	// the user id is already in the context.
	requireAuth := auth.RequireAuth(tokens)
	optionalAuth := auth.OptionalAuth(tokens)
	requireAdmin := auth.RequireAdmin(s.db.Users)

	authService := service.NewAuthService(s.db.Users, tokens, passwords, s.logger)
	artistService := service.NewArtistService(s.db.Artists, s.logger)
	albumService := service.NewAlbumService(s.db.Albums, s.db.Artists, s.logger)
	labelService := service.NewLabelService(s.db.Labels, s.logger)
	trackService := service.NewTrackService(s.db.Tracks, s.db.Albums, s.logger)
	ratingService := service.NewRatingService(s.db.Ratings, s.db.Albums, s.logger)
	listService := service.NewListService(s.db.Lists, s.db.Artists, s.db.Albums, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	artistHandler := handler.NewArtistHandler(artistService, albumService, s.logger)
	albumHandler := handler.NewAlbumHandler(albumService, trackService, s.logger)
	labelHandler := handler.NewLabelHandler(labelService, s.logger)
	trackHandler := handler.NewTrackHandler(trackService, s.logger)
	ratingHandler := handler.NewRatingHandler(ratingService, s.logger)
	listHandler := handler.NewListHandler(listService, s.logger)
	imageHandler := handler.NewImageHandler(s.config.ImagesDir, s.logger)

	s.router.Get("/health", handler.HandleHealth)
	s.router.Get("/images/albums/{filename}", imageHandler.HandleAlbumImage)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.With(requireAuth).Get("/me", authHandler.HandleMe)
			r.With(requireAuth, requireAdmin).Post("/users/{id}/admin", authHandler.HandleSetAdmin)
			r.With(requireAuth, requireAdmin).Get("/admins", authHandler.HandleListAdmins)
		})

		r.Route("/artists", func(r chi.Router) {
			r.Get("/", artistHandler.HandleList)
			r.Get("/grouped", artistHandler.HandleGrouped)
			r.Get("/search", artistHandler.HandleSearch)
			r.Get("/{id}", artistHandler.HandleGet)
			r.Get("/{id}/albums", artistHandler.HandleAlbums)
			r.With(requireAuth, requireAdmin).Post("/", artistHandler.HandleCreate)
			r.With(requireAuth, requireAdmin).Put("/{id}", artistHandler.HandleUpdate)
			r.With(requireAuth, requireAdmin).Delete("/{id}", artistHandler.HandleDelete)
		})

		r.Route("/albums", func(r chi.Router) {
			r.Get("/artist/{artistID}", albumHandler.HandleByArtist)
			r.Get("/search", albumHandler.HandleSearch)
			r.Get("/{id}", albumHandler.HandleGet)
			r.Get("/{id}/tracks", albumHandler.HandleTracks)
			r.With(requireAuth, requireAdmin).Post("/", albumHandler.HandleCreate)
			r.With(requireAuth, requireAdmin).Put("/{id}", albumHandler.HandleUpdate)
			r.With(requireAuth, requireAdmin).Delete("/{id}", albumHandler.HandleDelete)
		})

		r.Route("/labels", func(r chi.Router) {
			r.Get("/", labelHandler.HandleList)
			r.Get("/search", labelHandler.HandleSearch)
			r.Get("/{id}", labelHandler.HandleGet)
			r.Get("/{id}/artists", labelHandler.HandleArtists)
			r.Get("/{id}/albums", labelHandler.HandleAlbums)
			r.With(requireAuth, requireAdmin).Post("/", labelHandler.HandleCreate)
			r.With(requireAuth, requireAdmin).Put("/{id}", labelHandler.HandleUpdate)
			r.With(requireAuth, requireAdmin).Delete("/{id}", labelHandler.HandleDelete)
		})

		r.Route("/tracks", func(r chi.Router) {
			r.Get("/{id}", trackHandler.HandleGet)
			r.Get("/albums/{albumID}", trackHandler.HandleByAlbum)
			r.Get("/artists/{artistID}", trackHandler.HandleByArtist)
			r.With(requireAuth, requireAdmin).Post("/", trackHandler.HandleCreate)
			r.With(requireAuth, requireAdmin).Put("/{id}", trackHandler.HandleUpdate)
			r.With(requireAuth, requireAdmin).Delete("/{id}", trackHandler.HandleDelete)
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Get("/top-rated", ratingHandler.HandleTopRated)
			r.Get("/albums/{albumID}/average", ratingHandler.HandleAverage)
			r.With(requireAuth).Post("/albums/{albumID}/rate", ratingHandler.HandleRate)
			r.With(requireAuth).Delete("/albums/{albumID}/rate", ratingHandler.HandleRemove)
			r.With(requireAuth).Get("/albums/{albumID}/my-rating", ratingHandler.HandleMyRating)
			r.With(requireAuth).Get("/my-ratings", ratingHandler.HandleMyRatings)
			r.With(requireAuth, requireAdmin).Get("/albums/{albumID}/ratings", ratingHandler.HandleAlbumRatings)
		})

		r.Route("/lists", func(r chi.Router) {
			r.Get("/public", listHandler.HandlePublic)
			r.Get("/public/search", listHandler.HandleSearchPublic)
			r.Get("/share/{shareID}", listHandler.HandleGetByShareID)
			r.With(requireAuth).Get("/my-lists", listHandler.HandleMyLists)
			r.With(requireAuth).Post("/", listHandler.HandleCreate)
			r.With(optionalAuth).Get("/{id}", listHandler.HandleGet)
			r.With(optionalAuth).Get("/{id}/items", listHandler.HandleItems)
			r.With(optionalAuth).Get("/{id}/items/check", listHandler.HandleCheckItem)
			r.With(requireAuth).Put("/{id}", listHandler.HandleUpdate)
			r.With(requireAuth).Delete("/{id}", listHandler.HandleDelete)
			r.With(requireAuth).Post("/{id}/items", listHandler.HandleAddItem)
			r.With(requireAuth).Delete("/{id}/items/{itemID}", listHandler.HandleRemoveItem)
		})
	})

	// Unknown routes get a JSON body, not chi's plain-text default.
	s.router.NotFound(handler.HandleNotFound)

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Handler exposes the router so tests can drive the full middleware and
// route stack with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}
