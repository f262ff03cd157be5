package service

import (
	"context"
	"fmt"

	"personalblog/internal/models"
	"personalblog/internal/repository"
)

type UserService interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	// Promote grants admin rights to an existing user. Promoting an admin is a no-op.
	Promote(ctx context.Context, userID string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) Promote(ctx context.Context, userID string) (*models.User, error) {
	// get user by id
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsAdmin {
		return user, nil
	}

	// update user
	if err := s.userRepo.SetAdmin(ctx, userID, true); err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}

	user.IsAdmin = true
	return user, nil
}
