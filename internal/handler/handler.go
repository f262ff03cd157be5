package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"personalblog/internal/config"
	"personalblog/internal/database"
	"personalblog/internal/service"
)

// HealthReporter exposes the last recorded datastore connectivity check.
type HealthReporter interface {
	Status() database.Status
}

type Handlers struct {
	UserService  service.UserService
	AuthService  service.AuthService
	PostService  service.PostService
	FeedService  service.FeedService
	StatsService service.StatsService
	Health       HealthReporter
	Cfg          *config.Config
	Validate     *validator.Validate
	Logger       logrus.FieldLogger
}

func NewHandlers(service *service.Service, health HealthReporter, config *config.Config, logger logrus.FieldLogger) *Handlers {
	return &Handlers{
		UserService:  service.User,
		AuthService:  service.Auth,
		PostService:  service.Post,
		FeedService:  service.Feed,
		StatsService: service.Stats,
		Health:       health,
		Cfg:          config,
		Validate:     validator.New(),
		Logger:       logger,
	}
}
