package http

import (
	"net/http"
	"time"

	"github.com/harborview/notesvc/internal/notes/store"
	"github.com/harborview/notesvc/pkg/httpx"
	"github.com/harborview/notesvc/pkg/slogx"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthHandler reports service health. It answers 200 while the database
// is reachable and 503 with a DEGRADED status when it is not.
func HealthHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "OK"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("health check: database unreachable", "err", err)
			status = "DEGRADED"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, healthResponse{
			Status:    status,
			Timestamp: time.Now().UTC(),
		})
	}
}
