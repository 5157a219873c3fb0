package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookswap/internal/apperrors"
	"bookswap/internal/models"
)

func TestRequestService_Create(t *testing.T) {
	ctx := context.Background()

	bookID := uuid.New().String()
	ownerID := uuid.New().String()
	requesterID := uuid.New().String()

	book := &models.Book{
		BookID:  bookID,
		Title:   "Dune",
		OwnerID: ownerID,
		Owner:   &models.UserSummary{UserID: ownerID, Name: "Alice", Email: "alice@example.com"},
	}

	t.Run("snapshots the owner and enters pending", func(t *testing.T) {
		bookRepo := new(MockBookRepository)
		requestRepo := new(MockRequestRepository)
		svc := NewRequestService(requestRepo, bookRepo)

		bookRepo.On("GetByID", mock.Anything, bookID).Return(book, nil)
		requestRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Request) bool {
			return r.BookID == bookID && r.RequesterID == requesterID && r.OwnerID == ownerID
		})).Return(nil)

		request, err := svc.Create(ctx, bookID, requesterID, "interested")

		require.NoError(t, err)
		assert.Equal(t, ownerID, request.OwnerID)
		assert.Equal(t, "interested", request.Message)
		require.NotNil(t, request.Book)
		assert.Equal(t, "Dune", request.Book.Title)
		requestRepo.AssertExpectations(t)
	})

	t.Run("requesting your own book is rejected", func(t *testing.T) {
		bookRepo := new(MockBookRepository)
		requestRepo := new(MockRequestRepository)
		svc := NewRequestService(requestRepo, bookRepo)

		bookRepo.On("GetByID", mock.Anything, bookID).Return(book, nil)

		request, err := svc.Create(ctx, bookID, ownerID, "")

		assert.Nil(t, request)
		assert.ErrorIs(t, err, apperrors.ErrInvalidOperation)
		requestRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing book is not found", func(t *testing.T) {
		bookRepo := new(MockBookRepository)
		requestRepo := new(MockRequestRepository)
		svc := NewRequestService(requestRepo, bookRepo)

		bookRepo.On("GetByID", mock.Anything, bookID).Return(nil, apperrors.ErrNotFound)

		_, err := svc.Create(ctx, bookID, requesterID, "")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("malformed id is not found without touching the store", func(t *testing.T) {
		bookRepo := new(MockBookRepository)
		requestRepo := new(MockRequestRepository)
		svc := NewRequestService(requestRepo, bookRepo)

		_, err := svc.Create(ctx, "not-a-uuid", requesterID, "")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		bookRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("store duplicate surfaces as ErrDuplicateRequest", func(t *testing.T) {
		bookRepo := new(MockBookRepository)
		requestRepo := new(MockRequestRepository)
		svc := NewRequestService(requestRepo, bookRepo)

		bookRepo.On("GetByID", mock.Anything, bookID).Return(book, nil)
		requestRepo.On("Create", mock.Anything, mock.Anything).Return(apperrors.ErrDuplicateRequest)

		_, err := svc.Create(ctx, bookID, requesterID, "")

		assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)
	})
}

func TestRequestService_AcceptDecline(t *testing.T) {
	ctx := context.Background()

	requestID := uuid.New().String()
	ownerID := uuid.New().String()
	strangerID := uuid.New().String()

	pending := func() *models.Request {
		return &models.Request{
			RequestID: requestID,
			OwnerID:   ownerID,
			Status:    models.StatusPending,
		}
	}

	t.Run("owner accepts", func(t *testing.T) {
		requestRepo := new(MockRequestRepository)
		svc := NewRequestService(requestRepo, new(MockBookRepository))

		requestRepo.On("GetByID", mock.Anything, requestID).Return(pending(), nil)
		requestRepo.On("UpdateStatus", mock.Anything, requestID, models.StatusAccepted).Return(nil)

		request, err := svc.Accept(ctx, requestID, ownerID)

		require.NoError(t, err)
		assert.Equal(t, models.StatusAccepted, request.Status)
		requestRepo.AssertExpectations(t)
	})

	t.Run("owner declines", func(t *testing.T) {
		requestRepo := new(MockRequestRepository)
		svc := NewRequestService(requestRepo, new(MockBookRepository))

		requestRepo.On("GetByID", mock.Anything, requestID).Return(pending(), nil)
		requestRepo.On("UpdateStatus", mock.Anything, requestID, models.StatusDeclined).Return(nil)

		request, err := svc.Decline(ctx, requestID, ownerID)

		require.NoError(t, err)
		assert.Equal(t, models.StatusDeclined, request.Status)
	})

	t.Run("anyone but the recorded owner is forbidden", func(t *testing.T) {
		requestRepo := new(MockRequestRepository)
		svc := NewRequestService(requestRepo, new(MockBookRepository))

		requestRepo.On("GetByID", mock.Anything, requestID).Return(pending(), nil)

		_, err := svc.Accept(ctx, requestID, strangerID)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		requestRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("forbidden regardless of current status", func(t *testing.T) {
		requestRepo := new(MockRequestRepository)
		svc := NewRequestService(requestRepo, new(MockBookRepository))

		accepted := pending()
		accepted.Status = models.StatusAccepted
		requestRepo.On("GetByID", mock.Anything, requestID).Return(accepted, nil)

		_, err := svc.Decline(ctx, requestID, strangerID)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("missing request is not found", func(t *testing.T) {
		requestRepo := new(MockRequestRepository)
		svc := NewRequestService(requestRepo, new(MockBookRepository))

		requestRepo.On("GetByID", mock.Anything, requestID).Return(nil, apperrors.ErrNotFound)

		_, err := svc.Accept(ctx, requestID, ownerID)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestRequestService_ListByBook(t *testing.T) {
	ctx := context.Background()

	bookID := uuid.New().String()
	ownerID := uuid.New().String()
	strangerID := uuid.New().String()

	book := &models.Book{BookID: bookID, OwnerID: ownerID}

	t.Run("owner sees the book's requests", func(t *testing.T) {
		bookRepo := new(MockBookRepository)
		requestRepo := new(MockRequestRepository)
		svc := NewRequestService(requestRepo, bookRepo)

		bookRepo.On("GetByID", mock.Anything, bookID).Return(book, nil)
		requestRepo.On("GetByBook", mock.Anything, bookID).
			Return([]models.Request{{RequestID: uuid.New().String(), BookID: bookID}}, nil)

		requests, err := svc.ListByBook(ctx, bookID, ownerID)

		require.NoError(t, err)
		assert.Len(t, requests, 1)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		bookRepo := new(MockBookRepository)
		requestRepo := new(MockRequestRepository)
		svc := NewRequestService(requestRepo, bookRepo)

		bookRepo.On("GetByID", mock.Anything, bookID).Return(book, nil)

		_, err := svc.ListByBook(ctx, bookID, strangerID)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		requestRepo.AssertNotCalled(t, "GetByBook", mock.Anything, mock.Anything)
	})
}
