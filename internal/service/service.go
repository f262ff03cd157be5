package service

import (
	"github.com/sirupsen/logrus"
	"personalblog/internal/config"
	"personalblog/internal/repository"
	"personalblog/internal/storage"
)

type Service struct {
	User  UserService
	Post  PostService
	Auth  AuthService
	Feed  FeedService
	Stats StatsService
}

// NewService wires the services over rep. storage may be nil.
func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, logger logrus.FieldLogger) *Service {
	post := NewPostService(rep.Post, storage, logger)

	return &Service{
		User:  NewUserService(rep.User),
		Post:  post,
		Auth:  NewAuthService(rep.User, cfg),
		Feed:  NewFeedService(post, cfg.Site),
		Stats: NewStatsService(rep.User, rep.Post),
	}
}
