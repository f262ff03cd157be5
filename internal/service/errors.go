package service

import (
	"errors"

	"personalblog/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrNotFound    = repository.ErrNotFound
	ErrConflict    = repository.ErrConflict
	ErrUnavailable = repository.ErrUnavailable
)
