package handlers

import (
	"context"
	"net/http"
	"time"

	e "github.com/gartstein/biztime/internal/biztime/errors"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves /healthz.
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

func (h *HealthHandler) Routes() []Route {
	return []Route{{Method: http.MethodGet, Pattern: "/healthz", Handler: h.check}}
}

func (h *HealthHandler) check(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return &e.Error{
			Kind:    e.KindInternal,
			Status:  http.StatusServiceUnavailable,
			Message: "database unavailable",
			Err:     err,
		}
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	return nil
}
