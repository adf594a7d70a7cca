package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const healthTimeout = 2 * time.Second

// HealthChecker is satisfied by any dependency exposing Ping: Database,
// RedisClient, EventBus, objectstore.Store and TemporalClient all qualify.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks lists the dependencies probed by HealthHandler. Nil fields are
// not probed and do not appear in the response.
type HealthChecks struct {
	Database HealthChecker
	Redis    HealthChecker
	EventBus HealthChecker
	Storage  HealthChecker
	Temporal HealthChecker
}

func (c HealthChecks) named() map[string]HealthChecker {
	out := make(map[string]HealthChecker, 5)
	for name, hc := range map[string]HealthChecker{
		"database":  c.Database,
		"redis":     c.Redis,
		"event_bus": c.EventBus,
		"storage":   c.Storage,
		"temporal":  c.Temporal,
	} {
		if hc != nil {
			out[name] = hc
		}
	}
	return out
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler probes every configured dependency in parallel and answers 503
// with status "degraded" when any of them is unreachable.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	named := checks.named()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(named))}
		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)
		for name, hc := range named {
			wg.Go(func() {
				state := "ok"
				if err := hc.Ping(ctx); err != nil {
					state = "unreachable"
				}
				mu.Lock()
				resp.Checks[name] = state
				if state != "ok" {
					resp.Status = "degraded"
				}
				mu.Unlock()
			})
		}
		wg.Wait()

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
