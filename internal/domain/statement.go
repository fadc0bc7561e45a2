package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypePayment  TransactionType = "payment"
	TypeFee      TransactionType = "fee"
	TypeTransfer TransactionType = "transfer"
	TypeOther    TransactionType = "other"
)

type MatchMethod string

const (
	MethodExact        MatchMethod = "exact"
	MethodReversedName MatchMethod = "reversed_name"
	MethodFuzzy        MatchMethod = "fuzzy"
	MethodTokenBased   MatchMethod = "token_based"
	MethodAmount       MatchMethod = "amount"
	MethodManual       MatchMethod = "manual"
	MethodNone         MatchMethod = "none"
)

type BankStatement struct {
	ID               string    `json:"id"`
	BuildingID       string    `json:"building_id"`
	UploadDate       time.Time `json:"upload_date"`
	PeriodMonth      int       `json:"period_month"`
	PeriodYear       int       `json:"period_year"`
	OriginalFilename string    `json:"original_filename"`
}

type Transaction struct {
	ID              string           `json:"id"`
	StatementID     string           `json:"statement_id"`
	ActivityDate    time.Time        `json:"activity_date"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	// Description is the original Hebrew text from the bank.
	Description     string           `json:"description"`
	CreditAmount    *decimal.Decimal `json:"credit_amount,omitempty"`
	DebitAmount     *decimal.Decimal `json:"debit_amount,omitempty"`
	Balance         *decimal.Decimal `json:"balance,omitempty"`
	Type            TransactionType  `json:"transaction_type"`
	MatchedTenantID string           `json:"matched_tenant_id,omitempty"`
	MatchConfidence float64          `json:"match_confidence,omitempty"`
	MatchMethod     MatchMethod      `json:"match_method,omitempty"`
	IsConfirmed     bool             `json:"is_confirmed"`
	CreatedAt       time.Time        `json:"created_at"`
}
