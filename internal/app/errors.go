package service

import (
	"errors"

	"github.com/jigu1688/sporttools-sub000/internal/adapters/repository"
)

// Sentinel error kinds returned by the service.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = repository.ErrNotFound
)
