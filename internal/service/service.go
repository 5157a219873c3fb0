package service

import (
	"bookswap/internal/config"
	"bookswap/internal/repository"
	"bookswap/internal/storage"
)

type Service struct {
	Auth    AuthService
	Book    BookService
	Request RequestService
}

func NewService(repo *repository.Repository, cfg *config.Config, storage storage.Storage) *Service {
	return &Service{
		Auth:    NewAuthService(repo.User, cfg),
		Book:    NewBookService(repo.Book, repo.Request, storage),
		Request: NewRequestService(repo.Request, repo.Book),
	}
}
