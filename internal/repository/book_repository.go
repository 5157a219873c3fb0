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

type bookRepository struct {
	db *sqlx.DB
}

func NewBookRepository(db *sqlx.DB) BookRepository {
	return &bookRepository{db: db}
}

// bookRow carries the owner summary columns joined onto a book.
type bookRow struct {
	models.Book
	OwnerName  string `db:"owner_name"`
	OwnerEmail string `db:"owner_email"`
}

func (row *bookRow) toBook() models.Book {
	book := row.Book
	book.Owner = &models.UserSummary{
		UserID: book.OwnerID,
		Name:   row.OwnerName,
		Email:  row.OwnerEmail,
	}
	return book
}

const bookWithOwnerQuery = `
	SELECT b.book_id, b.title, b.author, b.condition, b.image_url,
	       b.image_object_name, b.owner_id, b.created_at, b.updated_at,
	       u.name AS owner_name, u.email AS owner_email
	FROM books b
	JOIN users u ON u.user_id = b.owner_id
`

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	book.BookID = uuid.New().String()

	now := time.Now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now

	query := `
		INSERT INTO books (book_id, title, author, condition, image_url, image_object_name, owner_id, created_at, updated_at)
		VALUES (:book_id, :title, :author, :condition, :image_url, :image_object_name, :owner_id, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, book); err != nil {
		return fmt.Errorf("creating book: %w", err)
	}

	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, bookID string) (*models.Book, error) {
	var row bookRow

	query := bookWithOwnerQuery + ` WHERE b.book_id = $1`

	err := r.db.GetContext(ctx, &row, query, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting book by id: %w", err)
	}

	book := row.toBook()
	return &book, nil
}

// GetAllExcluding returns every book not owned by ownerID, newest first, with
// the owner summary joined in.
func (r *bookRepository) GetAllExcluding(ctx context.Context, ownerID string) ([]models.Book, error) {
	var rows []bookRow

	query := bookWithOwnerQuery + ` WHERE b.owner_id <> $1 ORDER BY b.created_at DESC`

	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	books := make([]models.Book, 0, len(rows))
	for i := range rows {
		books = append(books, rows[i].toBook())
	}
	return books, nil
}

func (r *bookRepository) GetByOwner(ctx context.Context, ownerID string) ([]models.Book, error) {
	books := []models.Book{}

	query := `SELECT * FROM books WHERE owner_id = $1 ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &books, query, ownerID); err != nil {
		return nil, fmt.Errorf("listing books by owner: %w", err)
	}

	return books, nil
}

func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	book.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE books
		SET title = :title, author = :author, condition = :condition,
		    image_url = :image_url, image_object_name = :image_object_name,
		    updated_at = :updated_at
		WHERE book_id = :book_id
	`

	result, err := r.db.NamedExecContext(ctx, query, book)
	if err != nil {
		return fmt.Errorf("updating book: %w", err)
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

func (r *bookRepository) Delete(ctx context.Context, bookID string) error {
	query := `DELETE FROM books WHERE book_id = $1`

	result, err := r.db.ExecContext(ctx, query, bookID)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
