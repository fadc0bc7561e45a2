package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/vaadbayit/reconciler/internal/ingestion"
	"github.com/vaadbayit/reconciler/internal/matching"
	"github.com/vaadbayit/reconciler/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	buildingRepo *repository.BuildingRepo
	tenantRepo   *repository.TenantRepo
	stmtRepo     *repository.StatementRepo
	mappingRepo  *repository.MappingRepo
	messageRepo  *repository.MessageRepo
	matcher      *matching.Engine
	ingestionSvc *ingestion.Service
}

// Health is the liveness endpoint, mounted at / and /api/v1/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "vaad-bayit-reconciler",
		"status":  "ok",
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func notFoundOrError(w http.ResponseWriter, err error, what string) {
	if err == repository.ErrNotFound {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

func formatPeriod(month, year int) string {
	return fmt.Sprintf("%02d/%d", month, year)
}

// percentOrNA renders a ratio as a percentage string, or "N/A" when the
// denominator was zero (nil rate).
func percentOrNA(rate *float64) string {
	if rate == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *rate*100)
}
