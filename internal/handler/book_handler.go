package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"

	"bookswap/internal/apperrors"
	"bookswap/internal/service"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type bookForm struct {
	Title     string `validate:"required"`
	Author    string `validate:"required"`
	Condition string `validate:"required,oneof=new like-new good fair poor"`
}

func (h *Handlers) ListBooks(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	books, err := h.BookService.ListAll(r.Context(), user.UserID)
	if err != nil {
		h.serverError(w, err, "Failed to fetch books")
		return
	}

	WriteList(w, books, len(books))
}

func (h *Handlers) MyBooks(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	books, err := h.BookService.ListMine(r.Context(), user.UserID)
	if err != nil {
		h.serverError(w, err, "Failed to fetch your books")
		return
	}

	WriteList(w, books, len(books))
}

func (h *Handlers) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.BookService.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			WriteError(w, "Book not found", http.StatusNotFound)
			return
		}
		h.serverError(w, err, "Failed to fetch book")
		return
	}

	WriteData(w, book, http.StatusOK)
}

func (h *Handlers) CreateBook(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if !h.parseUploadForm(w, r) {
		return
	}

	form := bookForm{
		Title:     r.FormValue("title"),
		Author:    r.FormValue("author"),
		Condition: r.FormValue("condition"),
	}
	if form.Title == "" || form.Author == "" || form.Condition == "" {
		WriteError(w, "Please provide title, author, and condition", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(form); err != nil {
		WriteError(w, "Condition must be one of: new, like-new, good, fair, poor", http.StatusBadRequest)
		return
	}

	image, ok := h.readImage(w, r, true)
	if !ok {
		return
	}
	if image == nil {
		WriteError(w, "Please provide a book image", http.StatusBadRequest)
		return
	}

	book, err := h.BookService.Create(r.Context(), service.CreateBookRequest{
		Title:     form.Title,
		Author:    form.Author,
		Condition: form.Condition,
		OwnerID:   user.UserID,
		Image:     *image,
	})
	if err != nil {
		h.serverError(w, err, "Failed to create book")
		return
	}

	WriteData(w, book, http.StatusCreated)
}

func (h *Handlers) UpdateBook(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if !h.parseUploadForm(w, r) {
		return
	}

	condition := r.FormValue("condition")
	if condition != "" {
		if err := h.Validate.Var(condition, "oneof=new like-new good fair poor"); err != nil {
			WriteError(w, "Condition must be one of: new, like-new, good, fair, poor", http.StatusBadRequest)
			return
		}
	}

	image, ok := h.readImage(w, r, false)
	if !ok {
		return
	}

	book, err := h.BookService.Update(r.Context(), service.UpdateBookRequest{
		BookID:    mux.Vars(r)["id"],
		CallerID:  user.UserID,
		Title:     r.FormValue("title"),
		Author:    r.FormValue("author"),
		Condition: condition,
		Image:     image,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			WriteError(w, "Book not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrForbidden):
			WriteError(w, "Not authorized to update this book", http.StatusForbidden)
		default:
			h.serverError(w, err, "Failed to update book")
		}
		return
	}

	WriteData(w, book, http.StatusOK)
}

func (h *Handlers) DeleteBook(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	err := h.BookService.Delete(r.Context(), mux.Vars(r)["id"], user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			WriteError(w, "Book not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrForbidden):
			WriteError(w, "Not authorized to delete this book", http.StatusForbidden)
		default:
			h.serverError(w, err, "Failed to delete book")
		}
		return
	}

	WriteMessage(w, "Book deleted successfully", http.StatusOK)
}

// parseUploadForm caps the body at the upload limit before parsing the
// multipart form, so oversized uploads are rejected before any domain logic.
func (h *Handlers) parseUploadForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+1024*1024)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, "Image must be 5MB or smaller", http.StatusBadRequest)
			return false
		}
		WriteError(w, "Invalid multipart form data", http.StatusBadRequest)
		return false
	}
	return true
}

// readImage pulls the "image" part of the form, enforcing the size cap and
// the JPEG/PNG/WEBP allow-list by sniffing content, not trusting the header.
// Returns (nil, true) when no file was sent and required is false; a written
// error response is signalled by ok == false.
func (h *Handlers) readImage(w http.ResponseWriter, r *http.Request, required bool) (*service.ImageUpload, bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			if required {
				WriteError(w, "Please provide a book image", http.StatusBadRequest)
				return nil, false
			}
			return nil, true
		}
		WriteError(w, "Invalid image upload", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	if header.Size > h.Cfg.MaxUploadSize {
		WriteError(w, "Image must be 5MB or smaller", http.StatusBadRequest)
		return nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, h.Cfg.MaxUploadSize+1))
	if err != nil {
		WriteError(w, "Invalid image upload", http.StatusBadRequest)
		return nil, false
	}
	if int64(len(data)) > h.Cfg.MaxUploadSize {
		WriteError(w, "Image must be 5MB or smaller", http.StatusBadRequest)
		return nil, false
	}

	mtype := mimetype.Detect(data)
	if !allowedImageTypes[mtype.String()] {
		WriteError(w, "Invalid file type. Only JPEG, JPG, PNG, and WEBP images are allowed.", http.StatusBadRequest)
		return nil, false
	}

	return &service.ImageUpload{
		FileName:    header.Filename,
		ContentType: mtype.String(),
		File:        bytes.NewReader(data),
		Size:        int64(len(data)),
	}, true
}
