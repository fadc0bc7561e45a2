package payments

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := dec(t, s)
	return &d
}

func payment(t *testing.T, tenantID, amount string) MatchedPayment {
	t.Helper()
	return MatchedPayment{TenantID: tenantID, CreditAmount: decPtr(t, amount)}
}

func TestReconcileExactPayment(t *testing.T) {
	accounts := []TenantAccount{{TenantID: "t1", TenantName: "לוי רחל", ApartmentNumber: 3}}
	result := Reconcile(accounts, []MatchedPayment{payment(t, "t1", "300")}, decPtr(t, "300"))

	require.Len(t, result.Tenants, 1)
	status := result.Tenants[0]
	assert.Equal(t, StatePaid, status.Status)
	assert.True(t, status.Difference.IsZero())
	assert.False(t, status.IsOverpaid)
	assert.False(t, status.IsUnderpaid)

	assert.Equal(t, 1, result.Summary.Paid)
	assert.Equal(t, 0, result.Summary.Unpaid)
	require.NotNil(t, result.Summary.CollectionRate)
	assert.Equal(t, 1.0, *result.Summary.CollectionRate)
	require.NotNil(t, result.Summary.AmountRate)
	assert.Equal(t, 1.0, *result.Summary.AmountRate)
}

func TestReconcileUnderpayment(t *testing.T) {
	accounts := []TenantAccount{{TenantID: "t1"}}
	result := Reconcile(accounts, []MatchedPayment{payment(t, "t1", "150")}, decPtr(t, "300"))

	status := result.Tenants[0]
	assert.Equal(t, StateUnpaid, status.Status)
	assert.True(t, status.IsUnderpaid)
	assert.False(t, status.IsOverpaid)
	assert.True(t, status.Difference.Equal(dec(t, "-150")))
}

func TestReconcileOverpaymentBeyondTolerance(t *testing.T) {
	accounts := []TenantAccount{{TenantID: "t1"}}
	result := Reconcile(accounts, []MatchedPayment{payment(t, "t1", "305")}, decPtr(t, "300"))

	status := result.Tenants[0]
	assert.Equal(t, StatePaid, status.Status)
	assert.True(t, status.IsOverpaid)
}

func TestReconcileWithinTolerance(t *testing.T) {
	accounts := []TenantAccount{{TenantID: "t1"}}

	// One shekel either way is still settled, not flagged.
	over := Reconcile(accounts, []MatchedPayment{payment(t, "t1", "301")}, decPtr(t, "300"))
	assert.Equal(t, StatePaid, over.Tenants[0].Status)
	assert.False(t, over.Tenants[0].IsOverpaid)

	under := Reconcile(accounts, []MatchedPayment{payment(t, "t1", "299")}, decPtr(t, "300"))
	assert.Equal(t, StateUnpaid, under.Tenants[0].Status)
	assert.False(t, under.Tenants[0].IsUnderpaid)
}

func TestReconcileMultiplePaymentsAggregate(t *testing.T) {
	accounts := []TenantAccount{{TenantID: "t1"}}
	matched := []MatchedPayment{
		payment(t, "t1", "100"),
		payment(t, "t1", "200"),
	}
	result := Reconcile(accounts, matched, decPtr(t, "300"))

	assert.Equal(t, StatePaid, result.Tenants[0].Status)
	assert.True(t, result.Tenants[0].PaidAmount.Equal(dec(t, "300")))
}

func TestReconcileIgnoresUnusablePayments(t *testing.T) {
	accounts := []TenantAccount{{TenantID: "t1"}}
	matched := []MatchedPayment{
		{TenantID: "", CreditAmount: decPtr(t, "300")},
		{TenantID: "t1", CreditAmount: nil},
		{TenantID: "t1", CreditAmount: decPtr(t, "-50")},
	}
	result := Reconcile(accounts, matched, decPtr(t, "300"))

	assert.Equal(t, StateUnpaid, result.Tenants[0].Status)
	assert.True(t, result.Tenants[0].PaidAmount.IsZero())
}

func TestReconcileApartmentOverrideBeatsBuildingDefault(t *testing.T) {
	accounts := []TenantAccount{{TenantID: "t1", ExpectedOverride: decPtr(t, "450")}}
	result := Reconcile(accounts, []MatchedPayment{payment(t, "t1", "300")}, decPtr(t, "300"))

	status := result.Tenants[0]
	assert.True(t, status.ExpectedAmount.Equal(dec(t, "450")))
	assert.Equal(t, StateUnpaid, status.Status)
}

func TestReconcileNoConfiguredFee(t *testing.T) {
	accounts := []TenantAccount{
		{TenantID: "payer"},
		{TenantID: "nonpayer"},
	}
	result := Reconcile(accounts, []MatchedPayment{payment(t, "payer", "50")}, nil)

	byID := map[string]TenantStatus{}
	for _, status := range result.Tenants {
		byID[status.TenantID] = status
	}
	// Any positive payment settles a tenant with no configured fee.
	assert.Equal(t, StatePaid, byID["payer"].Status)
	assert.Equal(t, StateUnpaid, byID["nonpayer"].Status)
	assert.Nil(t, result.Summary.AmountRate)
}

func TestReconcileEmptyRoster(t *testing.T) {
	result := Reconcile(nil, nil, decPtr(t, "300"))

	assert.Empty(t, result.Tenants)
	assert.Equal(t, 0, result.Summary.TotalTenants)
	assert.Nil(t, result.Summary.CollectionRate)
	assert.Nil(t, result.Summary.AmountRate)
}

func TestReconcileSortsByApartmentNumber(t *testing.T) {
	accounts := []TenantAccount{
		{TenantID: "t7", ApartmentNumber: 7},
		{TenantID: "t2", ApartmentNumber: 2},
		{TenantID: "t5", ApartmentNumber: 5},
	}
	result := Reconcile(accounts, nil, decPtr(t, "300"))

	require.Len(t, result.Tenants, 3)
	assert.Equal(t, []int{2, 5, 7}, []int{
		result.Tenants[0].ApartmentNumber,
		result.Tenants[1].ApartmentNumber,
		result.Tenants[2].ApartmentNumber,
	})
}
