package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"bookswap/internal/apperrors"
)

type CreateRequestRequest struct {
	BookID  string `json:"bookId" validate:"required"`
	Message string `json:"message"`
}

func (h *Handlers) MyRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	requests, err := h.RequestService.ListByRequester(r.Context(), user.UserID)
	if err != nil {
		h.serverError(w, err, "Failed to fetch your requests")
		return
	}

	WriteList(w, requests, len(requests))
}

func (h *Handlers) ReceivedRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	requests, err := h.RequestService.ListByOwner(r.Context(), user.UserID)
	if err != nil {
		h.serverError(w, err, "Failed to fetch received requests")
		return
	}

	WriteList(w, requests, len(requests))
}

// BookRequests lists the requests for one book; only that book's owner may
// see them.
func (h *Handlers) BookRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	requests, err := h.RequestService.ListByBook(r.Context(), mux.Vars(r)["bookId"], user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			WriteError(w, "Book not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrForbidden):
			WriteError(w, "Not authorized to view requests for this book", http.StatusForbidden)
		default:
			h.serverError(w, err, "Failed to fetch book requests")
		}
		return
	}

	WriteList(w, requests, len(requests))
}

func (h *Handlers) CreateRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.BookID == "" {
		WriteError(w, "Book ID is required", http.StatusBadRequest)
		return
	}

	request, err := h.RequestService.Create(r.Context(), req.BookID, user.UserID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			WriteError(w, "Book not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrInvalidOperation):
			WriteError(w, "Cannot request your own book", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrDuplicateRequest):
			WriteError(w, "You have already requested this book", http.StatusBadRequest)
		default:
			h.serverError(w, err, "Failed to create request")
		}
		return
	}

	WriteData(w, request, http.StatusCreated)
}

func (h *Handlers) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	request, err := h.RequestService.Accept(r.Context(), mux.Vars(r)["id"], user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			WriteError(w, "Request not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrForbidden):
			WriteError(w, "Not authorized to accept this request", http.StatusForbidden)
		default:
			h.serverError(w, err, "Failed to accept request")
		}
		return
	}

	WriteData(w, request, http.StatusOK)
}

func (h *Handlers) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	request, err := h.RequestService.Decline(r.Context(), mux.Vars(r)["id"], user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			WriteError(w, "Request not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrForbidden):
			WriteError(w, "Not authorized to decline this request", http.StatusForbidden)
		default:
			h.serverError(w, err, "Failed to decline request")
		}
		return
	}

	WriteData(w, request, http.StatusOK)
}
