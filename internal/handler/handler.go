package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pulsepost-dev/pulsepost/internal/logger"
	"github.com/pulsepost-dev/pulsepost/internal/service"
)

type Handler struct {
	auth   service.AuthService
	post   service.PostService
	health Pinger
}

// Pinger reports datastore reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func New(auth service.AuthService, post service.PostService, health Pinger) *Handler {
	return &Handler{auth: auth, post: post, health: health}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
