package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"bookswap/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User, password string) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
}

type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, bookID string) (*models.Book, error)
	GetAllExcluding(ctx context.Context, ownerID string) ([]models.Book, error)
	GetByOwner(ctx context.Context, ownerID string) ([]models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, bookID string) error
}

type RequestRepository interface {
	Create(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, requestID string) (*models.Request, error)
	GetByRequester(ctx context.Context, requesterID string) ([]models.Request, error)
	GetByOwner(ctx context.Context, ownerID string) ([]models.Request, error)
	GetByBook(ctx context.Context, bookID string) ([]models.Request, error)
	UpdateStatus(ctx context.Context, requestID, status string) error
	DeleteByBook(ctx context.Context, bookID string) (int64, error)
}

type Repository struct {
	User    UserRepository
	Book    BookRepository
	Request RequestRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:    NewUserRepository(db),
		Book:    NewBookRepository(db),
		Request: NewRequestRepository(db),
	}
}
