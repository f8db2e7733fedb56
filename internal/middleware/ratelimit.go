package middleware

import (
	"fmt"
	"net"
	"net/http"

	"github.com/pulsepost-dev/pulsepost/internal/middleware/ratelimiter"
	"github.com/pulsepost-dev/pulsepost/internal/utils"
)

func RateLimit(rl *ratelimiter.Limiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if actor := GetActorFromContext(r); actor != nil && actor.IsAdmin() { // disable for admin
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GlobalRateLimit(rl *ratelimiter.Limiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}

// GetIP extracts the client IP from RemoteAddr. Proxy headers are not
// trusted, the service is expected to face clients directly.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}
	return ip, nil
}

// GetUserIdentity keys the bucket by the authenticated user. Only valid
// behind NeedAuth.
func GetUserIdentity(r *http.Request) (string, error) {
	actor := GetActorFromContext(r)
	if actor == nil {
		return "", fmt.Errorf("no authenticated user")
	}
	return fmt.Sprintf("user_%d", actor.Id), nil
}
