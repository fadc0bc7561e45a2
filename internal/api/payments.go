package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vaadbayit/reconciler/internal/domain"
	"github.com/vaadbayit/reconciler/internal/payments"
	"github.com/vaadbayit/reconciler/internal/repository"
)

// resolvePeriod picks the requested month/year or falls back to the latest
// statement period for the building.
func (h *Handlers) resolvePeriod(r *http.Request, buildingID string) (month, year int, err error) {
	q := r.URL.Query()
	month = parseIntDefault(q.Get("month"), 0)
	year = parseIntDefault(q.Get("year"), 0)
	if month > 0 && year > 0 {
		return month, year, nil
	}
	return h.stmtRepo.LatestPeriod(buildingID)
}

// buildingStatus runs the reconciliation pipeline for one building+period.
func (h *Handlers) buildingStatus(buildingID string, month, year int) (*domain.Building, payments.BuildingPeriodSummary, error) {
	building, err := h.buildingRepo.GetByID(buildingID)
	if err != nil {
		return nil, payments.BuildingPeriodSummary{}, err
	}

	tenants, err := h.tenantRepo.ListActiveWithApartments(buildingID)
	if err != nil {
		return nil, payments.BuildingPeriodSummary{}, err
	}

	accounts := make([]payments.TenantAccount, 0, len(tenants))
	for _, t := range tenants {
		accounts = append(accounts, payments.TenantAccount{
			TenantID:         t.Tenant.ID,
			TenantName:       t.Tenant.Name,
			ApartmentNumber:  t.ApartmentNumber,
			Floor:            t.Floor,
			Phone:            t.Tenant.Phone,
			Language:         t.Tenant.Language,
			ExpectedOverride: t.ApartmentExpected,
		})
	}

	txns, err := h.stmtRepo.PaymentsForPeriod(buildingID, month, year)
	if err != nil {
		return nil, payments.BuildingPeriodSummary{}, err
	}

	matched := make([]payments.MatchedPayment, 0, len(txns))
	for _, txn := range txns {
		matched = append(matched, payments.MatchedPayment{
			TenantID:     txn.MatchedTenantID,
			CreditAmount: txn.CreditAmount,
		})
	}

	return building, payments.Reconcile(accounts, matched, building.ExpectedMonthlyPayment), nil
}

func (h *Handlers) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")

	month, year, err := h.resolvePeriod(r, buildingID)
	if err != nil {
		if err == repository.ErrNotFound {
			writeError(w, http.StatusNotFound, "no bank statements found for this building")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	building, summary, err := h.buildingStatus(buildingID, month, year)
	if err != nil {
		notFoundOrError(w, err, "building")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"building_id":   buildingID,
		"building_name": building.Name,
		"period":        formatPeriod(month, year),
		"summary": map[string]any{
			"total_tenants":   summary.Summary.TotalTenants,
			"paid":            summary.Summary.Paid,
			"unpaid":          summary.Summary.Unpaid,
			"total_expected":  summary.Summary.TotalExpected,
			"total_collected": summary.Summary.TotalCollected,
			"collection_rate": percentOrNA(summary.Summary.CollectionRate),
			"amount_rate":     percentOrNA(summary.Summary.AmountRate),
		},
		"tenants": summary.Tenants,
	})
}

func (h *Handlers) GetUnpaidTenants(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")

	month, year, err := h.resolvePeriod(r, buildingID)
	if err != nil {
		if err == repository.ErrNotFound {
			writeError(w, http.StatusNotFound, "no bank statements found for this building")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	building, summary, err := h.buildingStatus(buildingID, month, year)
	if err != nil {
		notFoundOrError(w, err, "building")
		return
	}

	unpaid := make([]payments.TenantStatus, 0)
	for _, status := range summary.Tenants {
		if status.Status == payments.StateUnpaid {
			unpaid = append(unpaid, status)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"building_id":    buildingID,
		"building_name":  building.Name,
		"period":         formatPeriod(month, year),
		"unpaid_count":   len(unpaid),
		"unpaid_tenants": unpaid,
	})
}

func (h *Handlers) GetBuildingHistory(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")
	building, err := h.buildingRepo.GetByID(buildingID)
	if err != nil {
		notFoundOrError(w, err, "building")
		return
	}

	months := parseIntDefault(r.URL.Query().Get("months"), 6)

	listings, err := h.stmtRepo.ListByBuilding(buildingID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(listings) > months {
		listings = listings[:months]
	}

	history := make([]map[string]any, 0, len(listings))
	for _, l := range listings {
		txns, err := h.stmtRepo.ListTransactions(l.Statement.ID, repository.AllTransactions())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		received := 0
		total := decimal.Zero
		for _, txn := range txns {
			if txn.Type != domain.TypePayment {
				continue
			}
			if txn.CreditAmount != nil {
				total = total.Add(*txn.CreditAmount)
			}
			if txn.MatchedTenantID != "" {
				received++
			}
		}

		history = append(history, map[string]any{
			"period":            formatPeriod(l.Statement.PeriodMonth, l.Statement.PeriodYear),
			"statement_id":      l.Statement.ID,
			"upload_date":       l.Statement.UploadDate.Format(time.RFC3339),
			"payments_received": received,
			"total_amount":      total,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"building_id":   buildingID,
		"building_name": building.Name,
		"history":       history,
	})
}

func (h *Handlers) GetTenantHistory(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	tenant, err := h.tenantRepo.GetByID(tenantID)
	if err != nil {
		notFoundOrError(w, err, "tenant")
		return
	}

	history, err := h.stmtRepo.TenantPaymentHistory(tenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	total := decimal.Zero
	entries := make([]map[string]any, 0, len(history))
	for _, p := range history {
		amount := decimal.Zero
		if p.Transaction.CreditAmount != nil {
			amount = *p.Transaction.CreditAmount
		}
		total = total.Add(amount)
		entries = append(entries, map[string]any{
			"period":           formatPeriod(p.PeriodMonth, p.PeriodYear),
			"payment_date":     p.Transaction.ActivityDate.Format(time.RFC3339),
			"amount":           amount,
			"description":      p.Transaction.Description,
			"match_confidence": p.Transaction.MatchConfidence,
			"is_confirmed":     p.Transaction.IsConfirmed,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tenant_id":     tenantID,
		"tenant_name":   tenant.Name,
		"payment_count": len(entries),
		"total_paid":    total,
		"payments":      entries,
	})
}
