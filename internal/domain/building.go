package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Building struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Address           string           `json:"address"`
	City              string           `json:"city"`
	BankAccountNumber string           `json:"bank_account_number,omitempty"`
	// ExpectedMonthlyPayment is the default fee per apartment; an apartment
	// override takes precedence.
	ExpectedMonthlyPayment *decimal.Decimal `json:"expected_monthly_payment,omitempty"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
}

type Apartment struct {
	ID         string `json:"id"`
	BuildingID string `json:"building_id"`
	Number     int    `json:"number"`
	Floor      int    `json:"floor"`
	// ExpectedPayment overrides the building default when set.
	ExpectedPayment *decimal.Decimal `json:"expected_payment,omitempty"`
}
