package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"personalblog/internal/config"
	"personalblog/internal/database"
	handlers "personalblog/internal/handler"
	"personalblog/internal/models"
	"personalblog/internal/service"
)

var (
	adminUser  = &models.User{UserID: "admin-1", Username: "alice", IsAdmin: true}
	readerUser = &models.User{UserID: "reader-1", Username: "bob"}
)

type testDeps struct {
	auth  *MockAuthService
	posts *MockPostService
	users *MockUserService
	feed  *MockFeedService
	stats *MockStatsService
}

func newDeps() *testDeps {
	return &testDeps{
		auth:  new(MockAuthService),
		posts: new(MockPostService),
		users: new(MockUserService),
		feed:  new(MockFeedService),
		stats: new(MockStatsService),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		StoreBackend:      config.BackendMemory,
		JWTSecretKey:      "test-secret-key",
		TokenDuration:     time.Hour,
		BcryptCost:        4,
		CORSAllowedOrigin: "*",
		MaxUploadSize:     1 << 20,
		Site:              config.Site{Title: "Test Blog", URL: "http://blog.test", FeedLimit: 20},
	}
}

func createTestHandler(deps *testDeps) *handlers.Handlers {
	logger, _ := logtest.NewNullLogger()

	return &handlers.Handlers{
		UserService:  deps.users,
		AuthService:  deps.auth,
		PostService:  deps.posts,
		FeedService:  deps.feed,
		StatsService: deps.stats,
		Health:       stubHealth{status: database.Status{Live: true, CheckedAt: time.Now()}},
		Cfg:          testConfig(),
		Validate:     validator.New(),
		Logger:       logger,
	}
}

// withTokens stubs Verify for the "admin" and "reader" bearer tokens.
func (d *testDeps) withTokens() *testDeps {
	d.auth.On("Verify", mockCtx, "admin").Return(adminUser, nil)
	d.auth.On("Verify", mockCtx, "reader").Return(readerUser, nil)
	return d
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// decodeEnvelope checks the JSON envelope and returns it
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int) envelope {
	t.Helper()

	assert.Equal(t, expectedStatus, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, expectedStatus < 400, env.Success)
	return env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestNewHandlers(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	deps := newDeps()

	svc := &service.Service{
		User:  deps.users,
		Post:  deps.posts,
		Auth:  deps.auth,
		Feed:  deps.feed,
		Stats: deps.stats,
	}

	handler := handlers.NewHandlers(svc, stubHealth{}, testConfig(), logger)

	assert.NotNil(t, handler.UserService)
	assert.NotNil(t, handler.AuthService)
	assert.NotNil(t, handler.PostService)
	assert.NotNil(t, handler.FeedService)
	assert.NotNil(t, handler.StatsService)
	assert.NotNil(t, handler.Health)
	assert.NotNil(t, handler.Cfg)
	assert.NotNil(t, handler.Validate)
}

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	router := handlers.NewRouter(createTestHandler(newDeps()))

	env := decodeEnvelope(t, doRequest(t, router, http.MethodGet, "/nope", "", nil), http.StatusNotFound)
	assert.Equal(t, "route not found", env.Message)

	decodeEnvelope(t, doRequest(t, router, http.MethodPatch, "/posts", "", nil), http.StatusMethodNotAllowed)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := handlers.NewRouter(createTestHandler(newDeps()))

	rr := doRequest(t, router, http.MethodOptions, "/posts", "", nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		status     database.Status
		fallback   bool
		wantStatus string
		wantFall   bool
	}{
		{"live", database.Status{Live: true}, true, "ok", false},
		{"down without fallback", database.Status{Live: false, Error: "dial tcp: refused"}, false, "degraded", false},
		{"down with fallback", database.Status{Live: false}, true, "degraded", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newDeps()
			if tt.status.Live {
				deps.stats.On("Counts", mockCtx).Return(&service.Counts{Posts: 3, Users: 2}, nil)
			}
			h := createTestHandler(deps)
			h.Health = stubHealth{status: tt.status}
			h.Cfg.FallbackSamplePosts = tt.fallback

			rr := doRequest(t, handlers.NewRouter(h), http.MethodGet, "/health", "", nil)

			env := decodeEnvelope(t, rr, http.StatusOK)
			health := decodeData[handlers.HealthResponse](t, env)
			assert.Equal(t, tt.wantStatus, health.Status)
			assert.Equal(t, tt.wantFall, health.Fallback)
			assert.Equal(t, config.BackendMemory, health.Backend)
			assert.Equal(t, tt.status.Error, health.Datastore.Error)

			if tt.status.Live {
				require.NotNil(t, health.PostsCount)
				require.NotNil(t, health.UsersCount)
				assert.Equal(t, int64(3), *health.PostsCount)
				assert.Equal(t, int64(2), *health.UsersCount)
			} else {
				assert.Nil(t, health.PostsCount)
				assert.Nil(t, health.UsersCount)
				assert.NotContains(t, rr.Body.String(), "postsCount")
			}
			deps.stats.AssertExpectations(t)
		})
	}
}

func TestHealthHandler_CountsFail(t *testing.T) {
	deps := newDeps()
	deps.stats.On("Counts", mockCtx).Return(nil, fmt.Errorf("failed to count posts: %w", service.ErrUnavailable))

	rr := doRequest(t, handlers.NewRouter(createTestHandler(deps)), http.MethodGet, "/health", "", nil)

	health := decodeData[handlers.HealthResponse](t, decodeEnvelope(t, rr, http.StatusOK))
	assert.Equal(t, "ok", health.Status)
	assert.Nil(t, health.PostsCount)
	assert.Nil(t, health.UsersCount)
}

func TestFeedHandler(t *testing.T) {
	deps := newDeps()
	deps.feed.On("RSS", mockCtx).Return([]byte(`<rss version="2.0"></rss>`), nil)

	rr := doRequest(t, handlers.NewRouter(createTestHandler(deps)), http.MethodGet, "/feed.xml", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, rr.Body.String(), `<rss version="2.0">`)
}

func TestFeedHandler_Unavailable(t *testing.T) {
	deps := newDeps()
	deps.feed.On("RSS", mockCtx).Return(nil, service.ErrUnavailable)

	rr := doRequest(t, handlers.NewRouter(createTestHandler(deps)), http.MethodGet, "/feed.xml", "", nil)

	decodeEnvelope(t, rr, http.StatusServiceUnavailable)
}

func TestServiceErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "invalid input",
			err:         fmt.Errorf("username and password are required: %w", service.ErrInvalidInput),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "username and password are required",
		},
		{
			name:        "unauthorized",
			err:         fmt.Errorf("invalid username or password: %w", service.ErrUnauthorized),
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "invalid username or password",
		},
		{
			name:        "conflict through repository wrapping",
			err:         fmt.Errorf("failed to register user: %w", fmt.Errorf("user alice: %w", service.ErrConflict)),
			wantStatus:  http.StatusConflict,
			wantMessage: "user alice already exists",
		},
		{
			name:        "not found through repository wrapping",
			err:         fmt.Errorf("failed to get post: %w", fmt.Errorf("post with id p-9: %w", service.ErrNotFound)),
			wantStatus:  http.StatusNotFound,
			wantMessage: "post with id p-9 not found",
		},
		{
			name:        "bare sentinel",
			err:         service.ErrConflict,
			wantStatus:  http.StatusConflict,
			wantMessage: "already exists",
		},
		{
			name:        "internal error is hidden",
			err:         fmt.Errorf("failed to hash password: %w", fmt.Errorf("boom")),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newDeps()
			deps.auth.On("Register", mockCtx, "alice", "secret123").Return(nil, tt.err)

			body := map[string]string{"username": "alice", "password": "secret123"}
			rr := doRequest(t, handlers.NewRouter(createTestHandler(deps)), http.MethodPost, "/auth/register", "", body)

			env := decodeEnvelope(t, rr, tt.wantStatus)
			assert.Equal(t, tt.wantMessage, env.Message)
			assert.NotContains(t, env.Message, ": ")
		})
	}
}
