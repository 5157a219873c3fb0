package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookswap/internal/apperrors"
	"bookswap/internal/config"
	"bookswap/internal/models"
	"bookswap/internal/repository"
)

type SignupRequest struct {
	Name     string
	Email    string
	Password string
}

// AuthService mints and verifies the session tokens carried in the cookie and
// runs the signup/login flows. Tokens stay valid until natural expiry; there
// is no server-side revocation.
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GenerateToken(userID string) (string, error)
	VerifyToken(tokenString string) (string, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Signup stores a new identity and returns it with a fresh session token.
// The unique index on email is the backstop for two racing signups; the
// repository surfaces it as ErrEmailTaken either way.
func (s *authService) Signup(ctx context.Context, req SignupRequest) (*models.User, string, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, "", apperrors.ErrEmailTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", err
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
	}

	if err := s.userRepo.Create(ctx, user, req.Password); err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user.UserID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user.UserID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *authService) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(s.cfg.TokenDuration).Unix(),
		"iat":    time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken checks signature and expiry and returns the user id carried in
// the claims. Expiry is enforced by jwt.Parse via the exp claim.
func (s *authService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil {
		return "", fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("token missing userId claim")
	}

	return userID, nil
}
