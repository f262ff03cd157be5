package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"personalblog/internal/config"
	"personalblog/internal/database"
	handlers "personalblog/internal/handler"
	"personalblog/internal/models"
	"personalblog/internal/repository"
	"personalblog/internal/service"
	"personalblog/internal/storage"
)

type App struct {
	Repo     *repository.Repository
	Service  *service.Service
	Handlers *handlers.Handlers
	Monitor  *database.Monitor

	logger  logrus.FieldLogger
	closers []func(ctx context.Context) error
}

type datastore struct {
	user    repository.UserRepository
	post    repository.PostRepository
	pinger  database.Pinger
	init    func(ctx context.Context) error
	close   func(ctx context.Context) error
	persist bool
}

// New wires the datastore, services and handlers for cfg. An unreachable
// datastore is not fatal: the monitor keeps probing and requests get 503
// (or sample posts) until it comes back.
func New(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*App, error) {
	store, err := openDatastore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{logger: logger}
	if store.close != nil {
		a.closers = append(a.closers, store.close)
	}

	var opts []database.MonitorOption
	if store.init != nil {
		opts = append(opts, database.WithRecover(store.init))
	}
	a.Monitor = database.NewMonitor(store.pinger, logger.WithField("component", "monitor"), opts...)

	if store.persist {
		if !a.Monitor.Check(ctx) {
			logger.WithField("backend", cfg.StoreBackend).Warn("datastore unreachable at startup")
		}
		if err := a.Monitor.Start(cfg.HealthCheckSchedule); err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("invalid HEALTH_CHECK_SCHEDULE %q: %w", cfg.HealthCheckSchedule, err)
		}
		a.closers = append(a.closers, func(context.Context) error {
			a.Monitor.Stop()
			return nil
		})
	} else {
		a.Monitor.SetLive(true, nil)
	}

	a.Repo = repository.NewRepository(
		repository.NewGuardedUserRepository(store.user, a.Monitor),
		repository.NewGuardedPostRepository(store.post, a.Monitor, cfg.FallbackSamplePosts),
	)

	images, err := openStorage(ctx, cfg, logger)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.Service = service.NewService(a.Repo, cfg, images, logger)
	a.Handlers = handlers.NewHandlers(a.Service, a.Monitor, cfg, logger)

	return a, nil
}

func (a *App) Router() http.Handler {
	return handlers.NewRouter(a.Handlers)
}

// Close releases everything New opened, newest first.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openDatastore(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*datastore, error) {
	log := logger.WithField("backend", cfg.StoreBackend)

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.OpenDB(cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		return &datastore{
			user:    repository.NewUserRepository(db.DB),
			post:    repository.NewPostRepository(db.DB),
			pinger:  db,
			init:    db.Init,
			close:   func(context.Context) error { return db.CloseDB() },
			persist: true,
		}, nil

	case config.BackendMongo:
		m, err := database.OpenMongo(ctx, cfg.DatabaseURL, cfg.MongoDatabase, log)
		if err != nil {
			return nil, err
		}
		return &datastore{
			user:    repository.NewMongoUserRepository(m.Database),
			post:    repository.NewMongoPostRepository(m.Database),
			pinger:  m,
			init:    m.Init,
			close:   m.Close,
			persist: true,
		}, nil

	default:
		log.Warn("using the in-memory store, data is lost on restart")
		// a fresh memory store starts with the sample posts so the blog is not empty
		return &datastore{
			user:   repository.NewMemoryUserRepository(),
			post:   repository.NewMemoryPostRepository(models.SamplePosts()...),
			pinger: database.PingFunc(func(context.Context) error { return nil }),
		}, nil
	}
}

// openStorage returns nil when MinIO is not configured, which disables uploads.
func openStorage(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (storage.Storage, error) {
	if !cfg.MinIO.Enabled() {
		logger.Info("MINIO_ENDPOINT not set, featured image uploads disabled")
		return nil, nil
	}

	client, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.EnsureBucket(ctx); err != nil {
		// uploads fail individually until MinIO is reachable
		logger.WithError(err).Warn("MinIO bucket check failed")
	}

	return client, nil
}
