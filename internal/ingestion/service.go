// Package ingestion orchestrates statement uploads: parse the workbook,
// match payment transactions to tenants, and persist the results.
package ingestion

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vaadbayit/reconciler/internal/domain"
	"github.com/vaadbayit/reconciler/internal/matching"
	"github.com/vaadbayit/reconciler/internal/repository"
	"github.com/vaadbayit/reconciler/internal/statement"
)

// UploadResult summarises one processed statement upload.
type UploadResult struct {
	StatementID         string `json:"statement_id"`
	Period              string `json:"period"`
	TotalTransactions   int    `json:"total_transactions"`
	PaymentTransactions int    `json:"payment_transactions"`
	Matched             int    `json:"matched"`
	Unmatched           int    `json:"unmatched"`
	MatchRate           string `json:"match_rate"`
}

// Service wires the parser, the matching engine and the repositories into
// the upload pipeline.
type Service struct {
	parser      *statement.Parser
	matcher     *matching.Engine
	tenantRepo  *repository.TenantRepo
	stmtRepo    *repository.StatementRepo
	mappingRepo *repository.MappingRepo
}

func NewService(
	parser *statement.Parser,
	matcher *matching.Engine,
	tenantRepo *repository.TenantRepo,
	stmtRepo *repository.StatementRepo,
	mappingRepo *repository.MappingRepo,
) *Service {
	return &Service{
		parser:      parser,
		matcher:     matcher,
		tenantRepo:  tenantRepo,
		stmtRepo:    stmtRepo,
		mappingRepo: mappingRepo,
	}
}

// UploadStatement parses an uploaded workbook for a building, matches each
// payment transaction against the building's active tenants, and persists
// the statement with all transactions atomically. A remembered name mapping
// short-circuits the engine with a confirmed manual match. Matches at or
// above matching.AutoConfirmThreshold are auto-confirmed.
func (s *Service) UploadStatement(buildingID string, data []byte, filename string, autoMatch bool) (*UploadResult, error) {
	parsed, meta, err := s.parser.ParseExcel(data, filename)
	if err != nil {
		return nil, fmt.Errorf("parse statement: %w", err)
	}

	var roster []matching.Candidate
	if autoMatch {
		tenants, err := s.tenantRepo.ListActiveWithApartments(buildingID)
		if err != nil {
			return nil, fmt.Errorf("load tenant roster: %w", err)
		}
		roster = make([]matching.Candidate, 0, len(tenants))
		for _, t := range tenants {
			roster = append(roster, matching.Candidate{
				ID:       t.Tenant.ID,
				Name:     t.Tenant.Name,
				FullName: t.Tenant.MatchName(),
			})
		}
	}

	stmt := &domain.BankStatement{
		ID:               uuid.NewString(),
		BuildingID:       buildingID,
		UploadDate:       time.Now().UTC(),
		PeriodMonth:      meta.PeriodMonth,
		PeriodYear:       meta.PeriodYear,
		OriginalFilename: filename,
	}

	result := &UploadResult{
		StatementID:       stmt.ID,
		Period:            fmt.Sprintf("%02d/%d", meta.PeriodMonth, meta.PeriodYear),
		TotalTransactions: len(parsed),
	}

	txns := make([]domain.Transaction, 0, len(parsed))
	for _, p := range parsed {
		txn := domain.Transaction{
			ID:              uuid.NewString(),
			StatementID:     stmt.ID,
			ActivityDate:    p.ActivityDate,
			ReferenceNumber: p.Reference,
			Description:     p.Description,
			CreditAmount:    p.CreditAmount,
			DebitAmount:     p.DebitAmount,
			Balance:         p.Balance,
			Type:            p.Type,
			CreatedAt:       time.Now().UTC(),
		}

		if p.Type == domain.TypePayment {
			result.PaymentTransactions++

			if autoMatch && p.PayerName != "" {
				decision := s.resolve(buildingID, p, roster)
				if decision.TenantID != "" {
					txn.MatchedTenantID = decision.TenantID
					txn.MatchConfidence = decision.Confidence
					txn.MatchMethod = decision.Method
					txn.IsConfirmed = decision.Confidence >= matching.AutoConfirmThreshold
					result.Matched++
				} else {
					result.Unmatched++
				}
			}
		}

		txns = append(txns, txn)
	}

	if err := s.stmtRepo.CreateWithTransactions(stmt, txns); err != nil {
		return nil, fmt.Errorf("persist statement: %w", err)
	}

	result.MatchRate = "N/A"
	if result.PaymentTransactions > 0 {
		rate := float64(result.Matched) / float64(result.PaymentTransactions) * 100
		result.MatchRate = fmt.Sprintf("%.1f%%", rate)
	}

	log.Printf("[ingestion] statement %s: %d transactions (%d payments, %d matched, %d unmatched)",
		stmt.ID, result.TotalTransactions, result.PaymentTransactions,
		result.Matched, result.Unmatched)

	return result, nil
}

// resolve checks remembered name mappings before running the engine. A
// mapping hit is a confirmed manual match.
func (s *Service) resolve(buildingID string, p statement.ParsedTransaction, roster []matching.Candidate) matching.Decision {
	tenantID, err := s.mappingRepo.FindTenantID(buildingID, p.PayerName)
	if err == nil {
		return matching.Decision{
			TenantID:   tenantID,
			Confidence: 1.0,
			Method:     domain.MethodManual,
		}
	}
	if err != repository.ErrNotFound {
		log.Printf("[ingestion] WARNING: mapping lookup for %q: %v", p.PayerName, err)
	}

	// Expected amount is unknown at upload time; only the actual credit is
	// available, so the amount boost does not apply here.
	return s.matcher.Match(p.PayerName, roster, nil, p.CreditAmount)
}
