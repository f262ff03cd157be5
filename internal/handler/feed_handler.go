package handlers

import "net/http"

func (h *Handlers) Feed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.FeedService.RSS(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(feed)
}
