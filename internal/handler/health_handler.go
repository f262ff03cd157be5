package handlers

import (
	"net/http"

	"personalblog/internal/database"
)

type HealthResponse struct {
	Status     string          `json:"status"`
	Backend    string          `json:"backend"`
	Datastore  database.Status `json:"datastore"`
	Fallback   bool            `json:"fallback"`
	PostsCount *int64          `json:"postsCount,omitempty"`
	UsersCount *int64          `json:"usersCount,omitempty"`
}

// HealthHandler reports liveness. It answers 200 while the process runs;
// datastore trouble shows up as status "degraded". Counts are left out
// whenever the datastore cannot answer them.
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := h.Health.Status()

	response := HealthResponse{
		Status:    "ok",
		Backend:   h.Cfg.StoreBackend,
		Datastore: status,
		Fallback:  h.Cfg.FallbackSamplePosts && !status.Live,
	}
	if !status.Live {
		response.Status = "degraded"
	}

	if status.Live && h.StatsService != nil {
		counts, err := h.StatsService.Counts(r.Context())
		if err != nil {
			h.Logger.WithError(err).Warn("health counts unavailable")
		} else {
			response.PostsCount = &counts.Posts
			response.UsersCount = &counts.Users
		}
	}

	WriteSuccess(w, response, http.StatusOK)
}
