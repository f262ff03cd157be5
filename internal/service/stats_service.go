package service

import (
	"context"
	"fmt"

	"personalblog/internal/repository"
)

// Counts is how much the datastore holds.
type Counts struct {
	Posts int64
	Users int64
}

type StatsService interface {
	Counts(ctx context.Context) (*Counts, error)
}

type statsService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

func NewStatsService(userRepo repository.UserRepository, postRepo repository.PostRepository) StatsService {
	return &statsService{
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

func (s *statsService) Counts(ctx context.Context) (*Counts, error) {
	posts, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return &Counts{Posts: posts, Users: users}, nil
}
