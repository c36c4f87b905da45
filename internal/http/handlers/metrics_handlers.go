package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rogerio-castellano/stock-ledger/internal/alerts"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics
// @Tags metrics
// @Produce json
// @Success 200 {object} repo.Metrics
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /metrics/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := metricsRepo.GetDashboardMetrics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetLowStockAlertsHandler godoc
// @Summary Most recent low-stock alerts
// @Tags metrics
// @Produce json
// @Param limit query int false "Number of alerts (default 50)"
// @Success 200 {array} alerts.LowStockAlert
// @Failure 400 {object} ErrorResponse "Invalid limit"
// @Router /alerts/low-stock [get]
func GetLowStockAlertsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r, "limit")
	if err != nil || (limit != nil && *limit <= 0) {
		writeErrorMessage(w, http.StatusBadRequest, errLimit.Error())
		return
	}
	n := int64(50)
	if limit != nil {
		n = int64(*limit)
	}

	recent := []alerts.LowStockAlert{}
	if alertReader != nil {
		if recent, err = alertReader.Recent(r.Context(), n); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, recent)
}

// Pinger is satisfied by *sql.DB and any client exposing a context-aware ping.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthHandler godoc
// @Summary Liveness and database reachability
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Database: "ok"}
		if db == nil {
			resp.Database = "in-memory"
			writeJSON(w, http.StatusOK, resp)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
