// internal/handlers/health.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/shaynesullivan/stockshark-be/internal/core/ports"
	"github.com/shaynesullivan/stockshark-be/internal/pkg/config"
)

// HealthHandler reports liveness and readiness for the API process.
type HealthHandler struct {
	db        ports.Database
	redis     *redis.Client
	asynq     *asynq.Inspector
	config    *config.Config
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(
	database ports.Database,
	redisClient *redis.Client,
	asynqInspector *asynq.Inspector,
	cfg *config.Config,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:        database,
		redis:     redisClient,
		asynq:     asynqInspector,
		config:    cfg,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

// CheckResult is the outcome of a single dependency probe.
type CheckResult struct {
	OK      bool                   `json:"ok"`
	Latency string                 `json:"latency,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthReport is the /health payload served to the mobile clients'
// connectivity probe and to operators.
type HealthReport struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Checks      map[string]CheckResult `json:"checks"`
	Goroutines  int                    `json:"goroutines"`
	HeapAllocMB uint64                 `json:"heap_alloc_mb"`
}

// Health handles the /health endpoint
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	report := HealthReport{
		Status:      "ok",
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now(),
		Checks:      make(map[string]CheckResult),
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: memStats.Alloc / 1024 / 1024,
	}

	report.Checks["database"] = h.checkDatabase(ctx)
	report.Checks["redis"] = h.checkRedis(ctx)
	if h.asynq != nil {
		report.Checks["queues"] = h.checkQueues(ctx)
	}

	statusCode := http.StatusOK
	for _, check := range report.Checks {
		if !check.OK {
			report.Status = "degraded"
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	h.writeReport(ctx, w, statusCode, report)
}

// Readiness handles the /ready endpoint
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{
		"database": "ready",
		"redis":    "ready",
	}
	ready := true

	if err := h.db.Ping(ctx); err != nil {
		ready = false
		checks["database"] = "not ready"
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		ready = false
		checks["redis"] = "not ready"
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	h.writeReport(ctx, w, statusCode, map[string]interface{}{
		"ready":  ready,
		"checks": checks,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckResult {
	start := time.Now()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "database health check failed",
			slog.String("error", err.Error()))
		return CheckResult{Error: err.Error()}
	}

	return CheckResult{
		OK:      true,
		Latency: time.Since(start).String(),
		Details: h.db.Health(ctx),
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) CheckResult {
	start := time.Now()

	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.logger.ErrorContext(ctx, "redis health check failed",
			slog.String("error", err.Error()))
		return CheckResult{Error: err.Error()}
	}

	return CheckResult{
		OK:      true,
		Latency: time.Since(start).String(),
	}
}

// checkQueues inspects only the queues this service is configured to run.
// A queue that has never seen a task is reported, not treated as a fault;
// broker reachability is the redis check's job.
func (h *HealthHandler) checkQueues(ctx context.Context) CheckResult {
	start := time.Now()
	details := make(map[string]interface{}, len(h.config.Asynq.Queues))

	for name := range h.config.Asynq.Queues {
		info, err := h.asynq.GetQueueInfo(name)
		if err != nil {
			details[name] = "not provisioned"
			continue
		}
		details[name] = map[string]interface{}{
			"pending": info.Pending,
			"active":  info.Active,
			"retry":   info.Retry,
		}
	}

	return CheckResult{
		OK:      true,
		Latency: time.Since(start).String(),
		Details: details,
	}
}

func (h *HealthHandler) writeReport(ctx context.Context, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.ErrorContext(ctx, "failed to encode health response",
			slog.String("error", err.Error()))
	}
}
