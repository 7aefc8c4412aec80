package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"vertrieb-backend/internal/cache"
)

const pingTimeout = 2 * time.Second

// HealthChecker probes the dependencies the API cannot serve without.
// Redis is reported but never flips readiness; the server degrades
// without it.
type HealthChecker struct {
	db *pgxpool.Pool
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
	Cache    string         `json:"cache"`
}

type DatabaseHealth struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs"`
}

func NewHealthChecker(db *pgxpool.Pool) *HealthChecker {
	return &HealthChecker{db: db}
}

// CheckBasic reports overall readiness. Unreachable Postgres means not ready.
func (h *HealthChecker) CheckBasic() HealthStatus {
	db := h.checkDatabase()

	status := "healthy"
	if db.Status != "healthy" {
		status = "unhealthy"
	}

	cacheStatus := "disabled"
	if cache.GetClient() != nil {
		cacheStatus = "unhealthy"
		if cache.IsHealthy() {
			cacheStatus = "healthy"
		}
	}

	return HealthStatus{Status: status, Database: db, Cache: cacheStatus}
}

func (h *HealthChecker) checkDatabase() DatabaseHealth {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	latency := time.Since(start).Milliseconds()

	status := "healthy"
	if err != nil {
		status = "unhealthy"
	}
	return DatabaseHealth{Status: status, LatencyMS: latency}
}
