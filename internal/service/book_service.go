package service

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bookswap/internal/apperrors"
	"bookswap/internal/models"
	"bookswap/internal/repository"
	"bookswap/internal/storage"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "service").Logger()

type ImageUpload struct {
	FileName    string
	ContentType string
	File        io.Reader
	Size        int64
}

type CreateBookRequest struct {
	Title     string
	Author    string
	Condition string
	OwnerID   string
	Image     ImageUpload
}

// UpdateBookRequest is a partial update: empty strings leave the field
// unchanged, a nil Image keeps the current one.
type UpdateBookRequest struct {
	BookID    string
	CallerID  string
	Title     string
	Author    string
	Condition string
	Image     *ImageUpload
}

type BookService interface {
	ListAll(ctx context.Context, viewerID string) ([]models.Book, error)
	ListMine(ctx context.Context, ownerID string) ([]models.Book, error)
	GetByID(ctx context.Context, bookID string) (*models.Book, error)
	Create(ctx context.Context, req CreateBookRequest) (*models.Book, error)
	Update(ctx context.Context, req UpdateBookRequest) (*models.Book, error)
	Delete(ctx context.Context, bookID, callerID string) error
}

type bookService struct {
	bookRepo    repository.BookRepository
	requestRepo repository.RequestRepository
	storage     storage.Storage
}

func NewBookService(bookRepo repository.BookRepository, requestRepo repository.RequestRepository, storage storage.Storage) BookService {
	return &bookService{
		bookRepo:    bookRepo,
		requestRepo: requestRepo,
		storage:     storage,
	}
}

func (s *bookService) ListAll(ctx context.Context, viewerID string) ([]models.Book, error) {
	return s.bookRepo.GetAllExcluding(ctx, viewerID)
}

func (s *bookService) ListMine(ctx context.Context, ownerID string) ([]models.Book, error) {
	return s.bookRepo.GetByOwner(ctx, ownerID)
}

func (s *bookService) GetByID(ctx context.Context, bookID string) (*models.Book, error) {
	if _, err := uuid.Parse(bookID); err != nil {
		return nil, apperrors.ErrNotFound
	}
	return s.bookRepo.GetByID(ctx, bookID)
}

// Create uploads the image first and only then stores the book. If the insert
// fails the uploaded object is removed so nothing is left orphaned.
func (s *bookService) Create(ctx context.Context, req CreateBookRequest) (*models.Book, error) {
	objectName, imageURL, err := s.storage.UploadImage(ctx, req.Image.FileName, req.Image.ContentType, req.Image.File, req.Image.Size)
	if err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:           req.Title,
		Author:          req.Author,
		Condition:       req.Condition,
		ImageURL:        imageURL,
		ImageObjectName: objectName,
		OwnerID:         req.OwnerID,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		if cleanupErr := s.storage.DeleteImage(ctx, objectName); cleanupErr != nil {
			logger.Warn().Err(cleanupErr).Str("object", objectName).Msg("failed to clean up image after insert failure")
		}
		return nil, err
	}

	// re-read with the owner summary joined in
	return s.bookRepo.GetByID(ctx, book.BookID)
}

// Update applies a partial update, owner only. A replacement image is uploaded
// and referenced before the old object is deleted, so a failed upload can
// never leave the book with a dangling reference.
func (s *bookService) Update(ctx context.Context, req UpdateBookRequest) (*models.Book, error) {
	book, err := s.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	if book.OwnerID != req.CallerID {
		return nil, apperrors.ErrForbidden
	}

	if req.Title != "" {
		book.Title = req.Title
	}
	if req.Author != "" {
		book.Author = req.Author
	}
	if req.Condition != "" {
		book.Condition = req.Condition
	}

	oldObjectName := ""
	if req.Image != nil {
		objectName, imageURL, err := s.storage.UploadImage(ctx, req.Image.FileName, req.Image.ContentType, req.Image.File, req.Image.Size)
		if err != nil {
			return nil, err
		}
		oldObjectName = book.ImageObjectName
		book.ImageObjectName = objectName
		book.ImageURL = imageURL
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		if book.ImageObjectName != oldObjectName && oldObjectName != "" {
			if cleanupErr := s.storage.DeleteImage(ctx, book.ImageObjectName); cleanupErr != nil {
				logger.Warn().Err(cleanupErr).Str("object", book.ImageObjectName).Msg("failed to clean up image after update failure")
			}
		}
		return nil, err
	}

	if oldObjectName != "" {
		if err := s.storage.DeleteImage(ctx, oldObjectName); err != nil {
			logger.Warn().Err(err).Str("object", oldObjectName).Msg("failed to delete replaced image")
		}
	}

	return book, nil
}

// Delete removes the book, its hosted image and every request on it, owner
// only. The cascade is best-effort sequential, not atomic: a failed image
// delete is logged and does not block removing the listing.
func (s *bookService) Delete(ctx context.Context, bookID, callerID string) error {
	book, err := s.GetByID(ctx, bookID)
	if err != nil {
		return err
	}

	if book.OwnerID != callerID {
		return apperrors.ErrForbidden
	}

	if err := s.storage.DeleteImage(ctx, book.ImageObjectName); err != nil {
		logger.Warn().Err(err).Str("object", book.ImageObjectName).Msg("failed to delete hosted image, continuing delete")
	}

	removed, err := s.requestRepo.DeleteByBook(ctx, bookID)
	if err != nil {
		return err
	}
	if removed > 0 {
		logger.Info().Int64("requests", removed).Str("bookId", bookID).Msg("removed requests with book")
	}

	return s.bookRepo.Delete(ctx, bookID)
}
