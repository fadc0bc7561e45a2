// Package payments aggregates matched transactions into per-tenant payment
// status for one building and billing period.
package payments

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vaadbayit/reconciler/internal/domain"
)

// overpayTolerance is the shekel band around zero inside which a tenant is
// considered exactly settled.
var overpayTolerance = decimal.NewFromInt(1)

type PaymentState string

const (
	StatePaid   PaymentState = "paid"
	StateUnpaid PaymentState = "unpaid"
)

// TenantAccount is one active tenant with the apartment fields the
// reconciler and its consumers need.
type TenantAccount struct {
	TenantID        string
	TenantName      string
	ApartmentNumber int
	Floor           int
	Phone           string
	Language        domain.Language
	// ExpectedOverride is the apartment-level fee; nil falls back to the
	// building default.
	ExpectedOverride *decimal.Decimal
}

// MatchedPayment is one matched payment transaction; only entries with a
// tenant and a positive credit amount contribute to the aggregation.
type MatchedPayment struct {
	TenantID     string
	CreditAmount *decimal.Decimal
}

// TenantStatus is one tenant's computed standing for the period.
type TenantStatus struct {
	TenantID        string          `json:"tenant_id"`
	TenantName      string          `json:"tenant_name"`
	ApartmentNumber int             `json:"apartment_number"`
	Floor           int             `json:"floor"`
	ExpectedAmount  decimal.Decimal `json:"expected_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	Difference      decimal.Decimal `json:"difference"`
	Status          PaymentState    `json:"status"`
	IsOverpaid      bool            `json:"is_overpaid"`
	IsUnderpaid     bool            `json:"is_underpaid"`
	Phone           string          `json:"phone,omitempty"`
	Language        domain.Language `json:"language"`
}

// Summary aggregates the building's standing. CollectionRate and AmountRate
// are nil — not zero — when their denominator is zero.
type Summary struct {
	TotalTenants   int             `json:"total_tenants"`
	Paid           int             `json:"paid"`
	Unpaid         int             `json:"unpaid"`
	TotalExpected  decimal.Decimal `json:"total_expected"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	CollectionRate *float64        `json:"collection_rate"`
	AmountRate     *float64        `json:"amount_rate"`
}

// BuildingPeriodSummary is the full reconciliation result for one
// building+period, with tenant statuses sorted by apartment number.
type BuildingPeriodSummary struct {
	Tenants []TenantStatus `json:"tenants"`
	Summary Summary        `json:"summary"`
}

// Reconcile aggregates matched payment credits by tenant and classifies each
// tenant's standing against the resolved expected amount (apartment override,
// else building default, else zero). A tenant with a configured fee is paid
// when the total covers it; a tenant without one is paid by any payment.
func Reconcile(accounts []TenantAccount, matched []MatchedPayment, buildingDefault *decimal.Decimal) BuildingPeriodSummary {
	paidByTenant := make(map[string]decimal.Decimal)
	for _, payment := range matched {
		if payment.TenantID == "" || payment.CreditAmount == nil || !payment.CreditAmount.IsPositive() {
			continue
		}
		paidByTenant[payment.TenantID] = paidByTenant[payment.TenantID].Add(*payment.CreditAmount)
	}

	statuses := make([]TenantStatus, 0, len(accounts))
	summary := Summary{TotalTenants: len(accounts)}

	for _, account := range accounts {
		expected := decimal.Zero
		switch {
		case account.ExpectedOverride != nil:
			expected = *account.ExpectedOverride
		case buildingDefault != nil:
			expected = *buildingDefault
		}

		paid := paidByTenant[account.TenantID]
		difference := paid.Sub(expected)

		isPaid := paid.IsPositive()
		if expected.IsPositive() {
			isPaid = paid.GreaterThanOrEqual(expected)
		}

		state := StateUnpaid
		if isPaid {
			state = StatePaid
			summary.Paid++
		} else {
			summary.Unpaid++
		}

		summary.TotalExpected = summary.TotalExpected.Add(expected)
		summary.TotalCollected = summary.TotalCollected.Add(paid)

		statuses = append(statuses, TenantStatus{
			TenantID:        account.TenantID,
			TenantName:      account.TenantName,
			ApartmentNumber: account.ApartmentNumber,
			Floor:           account.Floor,
			ExpectedAmount:  expected,
			PaidAmount:      paid,
			Difference:      difference,
			Status:          state,
			IsOverpaid:      difference.GreaterThan(overpayTolerance),
			IsUnderpaid:     difference.LessThan(overpayTolerance.Neg()),
			Phone:           account.Phone,
			Language:        account.Language,
		})
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].ApartmentNumber < statuses[j].ApartmentNumber
	})

	if summary.TotalTenants > 0 {
		rate := float64(summary.Paid) / float64(summary.TotalTenants)
		summary.CollectionRate = &rate
	}
	if summary.TotalExpected.IsPositive() {
		rate, _ := summary.TotalCollected.Div(summary.TotalExpected).Float64()
		summary.AmountRate = &rate
	}

	return BuildingPeriodSummary{Tenants: statuses, Summary: summary}
}
