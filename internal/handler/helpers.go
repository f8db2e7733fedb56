package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pulsepost-dev/pulsepost/internal/domain"
	"github.com/pulsepost-dev/pulsepost/internal/middleware"
)

// parseIntParam parses an integer parameter and returns a meaningful error
func parseIntParam(param string, paramName string) (int64, error) {
	val, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}
	return val, nil
}

func postIdParam(r *http.Request) (domain.PostId, error) {
	return parseIntParam(chi.URLParam(r, "post"), "post id")
}

// actor returns the authenticated user or writes a 401. A nil return
// means the response is already written.
func actor(w http.ResponseWriter, r *http.Request) *domain.User {
	user := middleware.GetActorFromContext(r)
	if user == nil {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return nil
	}
	return user
}
