package http

import (
	"net/http"

	"golang.org/x/time/rate"

	apierrors "globecli/internal/errors"
)

// RateLimit returns middleware enforcing a process-wide request budget.
// Analysis requests are CPU-bound (parsing and repair of arbitrary
// spreadsheets), so a single shared limiter protects the whole surface
// rather than tracking per-client state.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				apierrors.WriteError(w, apierrors.New(
					http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, retry later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
