package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vaadbayit/reconciler/internal/domain"
	"github.com/vaadbayit/reconciler/internal/matching"
	"github.com/vaadbayit/reconciler/internal/repository"
	"github.com/vaadbayit/reconciler/internal/statement"
)

func (h *Handlers) UploadStatement(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")
	if _, err := h.buildingRepo.GetByID(buildingID); err != nil {
		notFoundOrError(w, err, "building")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "read file: "+err.Error())
		return
	}

	autoMatch := r.FormValue("auto_match") != "false"

	result, err := h.ingestionSvc.UploadStatement(buildingID, data, header.Filename, autoMatch)
	if err != nil {
		if errors.Is(err, statement.ErrUnreadableStatement) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *Handlers) ListStatementTransactions(w http.ResponseWriter, r *http.Request) {
	statementID := chi.URLParam(r, "statementID")
	stmt, err := h.stmtRepo.GetStatement(statementID)
	if err != nil {
		notFoundOrError(w, err, "statement")
		return
	}

	q := r.URL.Query()
	filter := repository.AllTransactions()
	if q.Get("include_matched") == "false" {
		filter.IncludeMatched = false
	}
	if q.Get("include_unmatched") == "false" {
		filter.IncludeUnmatched = false
	}

	txns, err := h.stmtRepo.ListTransactions(statementID, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"statement_id":      statementID,
		"building_id":       stmt.BuildingID,
		"period":            formatPeriod(stmt.PeriodMonth, stmt.PeriodYear),
		"transaction_count": len(txns),
		"transactions":      txns,
	})
}

func (h *Handlers) ListBuildingStatements(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")
	if _, err := h.buildingRepo.GetByID(buildingID); err != nil {
		notFoundOrError(w, err, "building")
		return
	}

	listings, err := h.stmtRepo.ListByBuilding(buildingID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	statements := make([]map[string]any, 0, len(listings))
	for _, l := range listings {
		statements = append(statements, map[string]any{
			"id":                l.Statement.ID,
			"filename":          l.Statement.OriginalFilename,
			"period":            formatPeriod(l.Statement.PeriodMonth, l.Statement.PeriodYear),
			"upload_date":       l.Statement.UploadDate.Format(time.RFC3339),
			"transaction_count": l.TransactionCount,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"building_id":     buildingID,
		"statement_count": len(statements),
		"statements":      statements,
	})
}

// MatchTransaction manually links a transaction to a tenant. With
// remember=true (the default) the payer name is stored as a name mapping so
// future uploads match it automatically.
func (h *Handlers) MatchTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")
	tenantID := chi.URLParam(r, "tenantID")

	txn, err := h.stmtRepo.GetTransaction(transactionID)
	if err != nil {
		notFoundOrError(w, err, "transaction")
		return
	}
	if _, err := h.tenantRepo.GetByID(tenantID); err != nil {
		notFoundOrError(w, err, "tenant")
		return
	}

	if err := h.stmtRepo.UpdateMatch(transactionID, tenantID, 1.0, domain.MethodManual, true); err != nil {
		notFoundOrError(w, err, "transaction")
		return
	}

	remember := r.URL.Query().Get("remember") != "false"
	if remember {
		h.rememberMapping(txn, tenantID)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transaction_id": transactionID,
		"tenant_id":      tenantID,
		"remember":       remember,
	})
}

func (h *Handlers) rememberMapping(txn *domain.Transaction, tenantID string) {
	parser := statement.NewParser(statement.Config{})
	payerName := parser.ExtractPayerName(txn.Description)
	if payerName == "" {
		return
	}

	stmt, err := h.stmtRepo.GetStatement(txn.StatementID)
	if err != nil {
		return
	}

	mapping := &domain.NameMapping{
		ID:         uuid.NewString(),
		BuildingID: stmt.BuildingID,
		BankName:   payerName,
		TenantID:   tenantID,
		CreatedBy:  domain.MappingManual,
		CreatedAt:  time.Now().UTC(),
	}
	// Duplicate mappings are ignored at the database level.
	_ = h.mappingRepo.Insert(mapping)
}

// SuggestMatches returns the top candidate tenants for an unmatched
// transaction's payer name, for manual review.
func (h *Handlers) SuggestMatches(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")
	txn, err := h.stmtRepo.GetTransaction(transactionID)
	if err != nil {
		notFoundOrError(w, err, "transaction")
		return
	}

	stmt, err := h.stmtRepo.GetStatement(txn.StatementID)
	if err != nil {
		notFoundOrError(w, err, "statement")
		return
	}

	parser := statement.NewParser(statement.Config{})
	payerName := parser.ExtractPayerName(txn.Description)
	if payerName == "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"transaction_id": transactionID,
			"suggestions":    []matching.Suggestion{},
		})
		return
	}

	tenants, err := h.tenantRepo.ListActiveWithApartments(stmt.BuildingID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	roster := make([]matching.Candidate, 0, len(tenants))
	for _, t := range tenants {
		roster = append(roster, matching.Candidate{
			ID:       t.Tenant.ID,
			Name:     t.Tenant.Name,
			FullName: t.Tenant.MatchName(),
		})
	}

	topN := parseIntDefault(r.URL.Query().Get("top_n"), 3)
	suggestions := h.matcher.Suggest(payerName, roster, topN)

	writeJSON(w, http.StatusOK, map[string]any{
		"transaction_id": transactionID,
		"payer_name":     payerName,
		"suggestions":    suggestions,
	})
}
