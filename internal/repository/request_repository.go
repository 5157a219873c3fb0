package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"bookswap/internal/apperrors"
	"bookswap/internal/models"
)

type requestRepository struct {
	db *sqlx.DB
}

func NewRequestRepository(db *sqlx.DB) RequestRepository {
	return &requestRepository{db: db}
}

// requestRow carries the book summary and one counterpart user joined onto a
// request. Which user (owner or requester) depends on the query.
type requestRow struct {
	models.Request
	BookTitle     string `db:"book_title"`
	BookAuthor    string `db:"book_author"`
	BookCondition string `db:"book_condition"`
	BookImageURL  string `db:"book_image_url"`
	UserName      string `db:"counterpart_name"`
	UserEmail     string `db:"counterpart_email"`
}

func (row *requestRow) bookSummary() *models.BookSummary {
	return &models.BookSummary{
		BookID:    row.BookID,
		Title:     row.BookTitle,
		Author:    row.BookAuthor,
		Condition: row.BookCondition,
		ImageURL:  row.BookImageURL,
	}
}

const requestColumns = `
	r.request_id, r.book_id, r.requester_id, r.owner_id, r.status, r.message,
	r.created_at, r.updated_at,
	b.title AS book_title, b.author AS book_author,
	b.condition AS book_condition, b.image_url AS book_image_url
`

// Create persists a new pending request. The unique (book_id, requester_id)
// constraint is the authoritative duplicate check: of two racing inserts for
// the same pair, exactly one lands here as ErrDuplicateRequest.
func (r *requestRepository) Create(ctx context.Context, request *models.Request) error {
	request.RequestID = uuid.New().String()
	request.Status = models.StatusPending

	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now

	query := `
		INSERT INTO requests (request_id, book_id, requester_id, owner_id, status, message, created_at, updated_at)
		VALUES (:request_id, :book_id, :requester_id, :owner_id, :status, :message, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateRequest
		}
		return fmt.Errorf("creating request: %w", err)
	}

	return nil
}

// GetByID joins the book and requester summaries in, so accept/decline
// responses carry the same shape as the listings.
func (r *requestRepository) GetByID(ctx context.Context, requestID string) (*models.Request, error) {
	var row requestRow

	query := `
		SELECT ` + requestColumns + `,
		       u.name AS counterpart_name, u.email AS counterpart_email
		FROM requests r
		JOIN books b ON b.book_id = r.book_id
		JOIN users u ON u.user_id = r.requester_id
		WHERE r.request_id = $1
	`

	err := r.db.GetContext(ctx, &row, query, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting request by id: %w", err)
	}

	request := row.Request
	request.Book = row.bookSummary()
	request.Requester = &models.UserSummary{
		UserID: request.RequesterID,
		Name:   row.UserName,
		Email:  row.UserEmail,
	}
	return &request, nil
}

// GetByRequester lists requests sent by a user, newest first, with the book
// and the owner joined in.
func (r *requestRepository) GetByRequester(ctx context.Context, requesterID string) ([]models.Request, error) {
	var rows []requestRow

	query := `
		SELECT ` + requestColumns + `,
		       u.name AS counterpart_name, u.email AS counterpart_email
		FROM requests r
		JOIN books b ON b.book_id = r.book_id
		JOIN users u ON u.user_id = r.owner_id
		WHERE r.requester_id = $1
		ORDER BY r.created_at DESC
	`

	if err := r.db.SelectContext(ctx, &rows, query, requesterID); err != nil {
		return nil, fmt.Errorf("listing requests by requester: %w", err)
	}

	requests := make([]models.Request, 0, len(rows))
	for i := range rows {
		request := rows[i].Request
		request.Book = rows[i].bookSummary()
		request.Owner = &models.UserSummary{
			UserID: request.OwnerID,
			Name:   rows[i].UserName,
			Email:  rows[i].UserEmail,
		}
		requests = append(requests, request)
	}
	return requests, nil
}

// GetByOwner lists requests received on a user's books, newest first, with the
// book and the requester joined in.
func (r *requestRepository) GetByOwner(ctx context.Context, ownerID string) ([]models.Request, error) {
	var rows []requestRow

	query := `
		SELECT ` + requestColumns + `,
		       u.name AS counterpart_name, u.email AS counterpart_email
		FROM requests r
		JOIN books b ON b.book_id = r.book_id
		JOIN users u ON u.user_id = r.requester_id
		WHERE r.owner_id = $1
		ORDER BY r.created_at DESC
	`

	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("listing requests by owner: %w", err)
	}

	requests := make([]models.Request, 0, len(rows))
	for i := range rows {
		request := rows[i].Request
		request.Book = rows[i].bookSummary()
		request.Requester = &models.UserSummary{
			UserID: request.RequesterID,
			Name:   rows[i].UserName,
			Email:  rows[i].UserEmail,
		}
		requests = append(requests, request)
	}
	return requests, nil
}

// GetByBook lists every request on one book, newest first, with the requester
// joined in. Ownership is checked by the caller.
func (r *requestRepository) GetByBook(ctx context.Context, bookID string) ([]models.Request, error) {
	var rows []requestRow

	query := `
		SELECT ` + requestColumns + `,
		       u.name AS counterpart_name, u.email AS counterpart_email
		FROM requests r
		JOIN books b ON b.book_id = r.book_id
		JOIN users u ON u.user_id = r.requester_id
		WHERE r.book_id = $1
		ORDER BY r.created_at DESC
	`

	if err := r.db.SelectContext(ctx, &rows, query, bookID); err != nil {
		return nil, fmt.Errorf("listing requests by book: %w", err)
	}

	requests := make([]models.Request, 0, len(rows))
	for i := range rows {
		request := rows[i].Request
		request.Requester = &models.UserSummary{
			UserID: request.RequesterID,
			Name:   rows[i].UserName,
			Email:  rows[i].UserEmail,
		}
		requests = append(requests, request)
	}
	return requests, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, requestID, status string) error {
	query := `UPDATE requests SET status = $1, updated_at = $2 WHERE request_id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), requestID)
	if err != nil {
		return fmt.Errorf("updating request status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// DeleteByBook removes every request on a book as part of the book's cascade
// delete. Returns the number removed.
func (r *requestRepository) DeleteByBook(ctx context.Context, bookID string) (int64, error) {
	query := `DELETE FROM requests WHERE book_id = $1`

	result, err := r.db.ExecContext(ctx, query, bookID)
	if err != nil {
		return 0, fmt.Errorf("deleting requests for book: %w", err)
	}

	return result.RowsAffected()
}
