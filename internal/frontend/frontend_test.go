package frontend

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"personalblog/internal/config"
	"personalblog/internal/database"
	handlers "personalblog/internal/handler"
	"personalblog/internal/repository"
	"personalblog/internal/service"
)

type alwaysLive struct{}

func (alwaysLive) Live() bool { return true }

func (alwaysLive) Status() database.Status {
	return database.Status{Live: true, CheckedAt: time.Now()}
}

// newServer runs the real API over memory stores.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger, _ := logtest.NewNullLogger()
	cfg := &config.Config{
		StoreBackend:      config.BackendMemory,
		JWTSecretKey:      "frontend-test-secret",
		TokenDuration:     time.Hour,
		BcryptCost:        4,
		CORSAllowedOrigin: "*",
		MaxUploadSize:     1 << 20,
		Site:              config.Site{Title: "Test Blog", URL: "http://blog.test", FeedLimit: 20},
	}

	repo := repository.NewRepository(
		repository.NewMemoryUserRepository(),
		repository.NewMemoryPostRepository(),
	)
	svc := service.NewService(repo, cfg, nil, logger)

	srv := httptest.NewServer(handlers.NewRouter(handlers.NewHandlers(svc, alwaysLive{}, cfg, logger)))
	t.Cleanup(srv.Close)
	return srv
}

// deadURL points at a server that is already closed.
func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return srv.URL
}

type recordedDialog struct {
	title   string
	message string
}

type fakeDialog struct {
	shown []recordedDialog
}

func (d *fakeDialog) Acknowledge(title, message string) {
	d.shown = append(d.shown, recordedDialog{title: title, message: message})
}

func (d *fakeDialog) last() recordedDialog {
	if len(d.shown) == 0 {
		return recordedDialog{}
	}
	return d.shown[len(d.shown)-1]
}

func nullLogger() logrus.FieldLogger {
	logger, _ := logtest.NewNullLogger()
	return logger
}

func tempSessions(t *testing.T) *SessionStore {
	t.Helper()
	return NewSessionStore(filepath.Join(t.TempDir(), "blogctl", "session.json"))
}

func newTestController(t *testing.T, baseURL string, sessions *SessionStore) (*Controller, *fakeDialog) {
	t.Helper()
	dialog := &fakeDialog{}
	return NewController(NewClient(baseURL, nil), sessions, dialog, nullLogger()), dialog
}

func ptr[T any](v T) *T {
	return &v
}
