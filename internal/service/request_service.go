package service

import (
	"context"

	"github.com/google/uuid"

	"bookswap/internal/apperrors"
	"bookswap/internal/models"
	"bookswap/internal/repository"
)

// RequestService drives the borrow request lifecycle:
// pending -> accepted | declined.
type RequestService interface {
	Create(ctx context.Context, bookID, requesterID, message string) (*models.Request, error)
	Accept(ctx context.Context, requestID, callerID string) (*models.Request, error)
	Decline(ctx context.Context, requestID, callerID string) (*models.Request, error)
	ListByRequester(ctx context.Context, requesterID string) ([]models.Request, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Request, error)
	ListByBook(ctx context.Context, bookID, callerID string) ([]models.Request, error)
}

type requestService struct {
	requestRepo repository.RequestRepository
	bookRepo    repository.BookRepository
}

func NewRequestService(requestRepo repository.RequestRepository, bookRepo repository.BookRepository) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		bookRepo:    bookRepo,
	}
}

// Create enters a new request as pending. The owner is snapshotted from the
// book at this instant. Duplicates are not pre-checked; the store's unique
// constraint is the authoritative arbiter and comes back as
// ErrDuplicateRequest.
func (s *requestService) Create(ctx context.Context, bookID, requesterID, message string) (*models.Request, error) {
	if _, err := uuid.Parse(bookID); err != nil {
		return nil, apperrors.ErrNotFound
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if book.OwnerID == requesterID {
		return nil, apperrors.ErrInvalidOperation
	}

	request := &models.Request{
		BookID:      bookID,
		RequesterID: requesterID,
		OwnerID:     book.OwnerID,
		Message:     message,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	request.Book = book.Summary()
	request.Owner = book.Owner
	return request, nil
}

func (s *requestService) Accept(ctx context.Context, requestID, callerID string) (*models.Request, error) {
	return s.updateStatus(ctx, requestID, callerID, models.StatusAccepted)
}

func (s *requestService) Decline(ctx context.Context, requestID, callerID string) (*models.Request, error) {
	return s.updateStatus(ctx, requestID, callerID, models.StatusDeclined)
}

// updateStatus authorizes against the owner recorded on the request, not a
// fresh book lookup. Re-writing an already terminal status is allowed; the
// ownership check is the only guard.
func (s *requestService) updateStatus(ctx context.Context, requestID, callerID, status string) (*models.Request, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return nil, apperrors.ErrNotFound
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.OwnerID != callerID {
		return nil, apperrors.ErrForbidden
	}

	if err := s.requestRepo.UpdateStatus(ctx, requestID, status); err != nil {
		return nil, err
	}

	request.Status = status
	return request, nil
}

func (s *requestService) ListByRequester(ctx context.Context, requesterID string) ([]models.Request, error) {
	return s.requestRepo.GetByRequester(ctx, requesterID)
}

func (s *requestService) ListByOwner(ctx context.Context, ownerID string) ([]models.Request, error) {
	return s.requestRepo.GetByOwner(ctx, ownerID)
}

// ListByBook is restricted to the book's current owner.
func (s *requestService) ListByBook(ctx context.Context, bookID, callerID string) ([]models.Request, error) {
	if _, err := uuid.Parse(bookID); err != nil {
		return nil, apperrors.ErrNotFound
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if book.OwnerID != callerID {
		return nil, apperrors.ErrForbidden
	}

	return s.requestRepo.GetByBook(ctx, bookID)
}
