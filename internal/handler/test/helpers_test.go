package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"bookswap/internal/config"
	handlers "bookswap/internal/handler"
	"bookswap/internal/middleware"
	"bookswap/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:           "production",
		ClientURL:     "http://localhost:3000",
		JWTSecretKey:  "test-secret-key",
		TokenDuration: 30 * 24 * time.Hour,
		MaxUploadSize: 5 * 1024 * 1024,
	}
}

func newHandlers(auth *MockAuthService, books *MockBookService, requests *MockRequestService) *handlers.Handlers {
	return &handlers.Handlers{
		AuthService:    auth,
		BookService:    books,
		RequestService: requests,
		Cfg:            testConfig(),
		Validate:       validator.New(),
	}
}

func testUser() *models.User {
	return &models.User{
		UserID: uuid.New().String(),
		Name:   "Alice",
		Email:  "alice@example.com",
	}
}

// authenticated attaches the user the way the auth middleware would.
func authenticated(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), user))
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) handlers.Response {
	t.Helper()
	var resp handlers.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}
