package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"bookswap/cmd/app"
	"bookswap/internal/config"
	handlers "bookswap/internal/handler"
	"bookswap/internal/middleware"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "main").Logger()

func main() {
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		logger.Fatal().Msg("JWT_SECRET_KEY is not set")
	}

	db, repo, services, err := app.App(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer db.Close()

	handler := handlers.NewHandlers(services, db, cfg)

	router := mux.NewRouter()

	router.HandleFunc("/", handler.Home).Methods(http.MethodGet)
	router.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	// public auth endpoints
	router.HandleFunc("/api/auth/signup", handler.Signup).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", handler.Login).Methods(http.MethodPost)

	// everything else requires a session
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(mux.MiddlewareFunc(middleware.Auth(services.Auth, repo.User)))

	protected.HandleFunc("/auth/logout", handler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", handler.Me).Methods(http.MethodGet)

	protected.HandleFunc("/books", handler.ListBooks).Methods(http.MethodGet)
	protected.HandleFunc("/books", handler.CreateBook).Methods(http.MethodPost)
	protected.HandleFunc("/books/my-books", handler.MyBooks).Methods(http.MethodGet)
	protected.HandleFunc("/books/{id}", handler.GetBook).Methods(http.MethodGet)
	protected.HandleFunc("/books/{id}", handler.UpdateBook).Methods(http.MethodPut)
	protected.HandleFunc("/books/{id}", handler.DeleteBook).Methods(http.MethodDelete)

	protected.HandleFunc("/requests", handler.CreateRequest).Methods(http.MethodPost)
	protected.HandleFunc("/requests/my-requests", handler.MyRequests).Methods(http.MethodGet)
	protected.HandleFunc("/requests/received", handler.ReceivedRequests).Methods(http.MethodGet)
	protected.HandleFunc("/requests/book/{bookId}", handler.BookRequests).Methods(http.MethodGet)
	protected.HandleFunc("/requests/{id}/accept", handler.AcceptRequest).Methods(http.MethodPut)
	protected.HandleFunc("/requests/{id}/decline", handler.DeclineRequest).Methods(http.MethodPut)

	handlerChain := middleware.Chain(
		router,
		middleware.Logging,
		middleware.CORS(cfg.ClientURL),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           handlerChain,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.ServerPort).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
