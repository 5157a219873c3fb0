package handlers

import (
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"bookswap/internal/config"
	"bookswap/internal/database"
	"bookswap/internal/middleware"
	"bookswap/internal/models"
	"bookswap/internal/service"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "handler").Logger()

type Handlers struct {
	AuthService    service.AuthService
	BookService    service.BookService
	RequestService service.RequestService
	DB             *database.DB
	Cfg            *config.Config
	Validate       *validator.Validate
}

func NewHandlers(services *service.Service, db *database.DB, cfg *config.Config) *Handlers {
	return &Handlers{
		AuthService:    services.Auth,
		BookService:    services.Book,
		RequestService: services.Request,
		DB:             db,
		Cfg:            cfg,
		Validate:       validator.New(),
	}
}

// currentUser pulls the identity the auth middleware attached. Protected
// routes are always behind that middleware, so a miss means a wiring bug.
func (h *Handlers) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, "Not authorized", http.StatusUnauthorized)
		return nil, false
	}
	return user, true
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	WriteMessage(w, "BookSwap API", http.StatusOK)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.HealthCheck(r.Context()); err != nil {
			h.serverError(w, err, "Database unavailable")
			return
		}
	}
	WriteMessage(w, "ok", http.StatusOK)
}
