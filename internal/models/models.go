package models

import (
	"time"
)

// Book conditions.
const (
	ConditionNew     = "new"
	ConditionLikeNew = "like-new"
	ConditionGood    = "good"
	ConditionFair    = "fair"
	ConditionPoor    = "poor"
)

// Request statuses. A request starts as pending and moves to accepted or
// declined.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

type User struct {
	UserID       string    `json:"id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// UserSummary is the shallow owner/requester view joined into listings.
type UserSummary struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{UserID: u.UserID, Name: u.Name, Email: u.Email}
}

type Book struct {
	BookID          string    `json:"id" db:"book_id"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	Condition       string    `json:"condition" db:"condition"`
	ImageURL        string    `json:"imageUrl" db:"image_url"`
	ImageObjectName string    `json:"-" db:"image_object_name"`
	OwnerID         string    `json:"ownerId" db:"owner_id"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`

	Owner *UserSummary `json:"owner,omitempty" db:"-"`
}

type BookSummary struct {
	BookID    string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Condition string `json:"condition"`
	ImageURL  string `json:"imageUrl"`
}

func (b *Book) Summary() *BookSummary {
	return &BookSummary{
		BookID:    b.BookID,
		Title:     b.Title,
		Author:    b.Author,
		Condition: b.Condition,
		ImageURL:  b.ImageURL,
	}
}

type Request struct {
	RequestID   string `json:"id" db:"request_id"`
	BookID      string `json:"bookId" db:"book_id"`
	RequesterID string `json:"requesterId" db:"requester_id"`
	// OwnerID is a snapshot of the book owner at creation time; accept and
	// decline are authorized against it, not a fresh book lookup.
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	Status    string    `json:"status" db:"status"`
	Message   string    `json:"message,omitempty" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Book      *BookSummary `json:"book,omitempty" db:"-"`
	Requester *UserSummary `json:"requester,omitempty" db:"-"`
	Owner     *UserSummary `json:"owner,omitempty" db:"-"`
}
