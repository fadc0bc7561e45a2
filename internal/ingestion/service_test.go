package ingestion

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vaadbayit/reconciler/internal/domain"
	"github.com/vaadbayit/reconciler/internal/matching"
	"github.com/vaadbayit/reconciler/internal/repository"
	"github.com/vaadbayit/reconciler/internal/statement"
)

type testEnv struct {
	svc        *Service
	buildings  *repository.BuildingRepo
	tenants    *repository.TenantRepo
	statements *repository.StatementRepo
	mappings   *repository.MappingRepo
	building   *domain.Building
	apartment  *domain.Apartment
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		buildings:  repository.NewBuildingRepo(db),
		tenants:    repository.NewTenantRepo(db),
		statements: repository.NewStatementRepo(db),
		mappings:   repository.NewMappingRepo(db),
	}
	env.svc = NewService(
		statement.NewParser(statement.DefaultConfig()),
		matching.NewEngine(matching.Config{}),
		env.tenants,
		env.statements,
		env.mappings,
	)

	now := time.Now().UTC().Truncate(time.Second)
	env.building = &domain.Building{
		ID:        uuid.NewString(),
		Name:      "הרצל 15",
		Address:   "הרצל 15",
		City:      "תל אביב",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, env.buildings.Insert(env.building))

	env.apartment = &domain.Apartment{
		ID:         uuid.NewString(),
		BuildingID: env.building.ID,
		Number:     1,
		Floor:      1,
	}
	require.NoError(t, env.buildings.InsertApartment(env.apartment))
	return env
}

func (env *testEnv) addTenant(t *testing.T, name string) *domain.Tenant {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	tenant := &domain.Tenant{
		ID:            uuid.NewString(),
		ApartmentID:   env.apartment.ID,
		BuildingID:    env.building.ID,
		Name:          name,
		Language:      domain.LanguageHebrew,
		OwnershipType: domain.OwnershipOwner,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, env.tenants.Insert(tenant))
	return tenant
}

func workbook(t *testing.T, dataRows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := append([][]any{
		{"תאריך פעילות", "אסמכתא", "תאור פעולה", "זכות", "חובה", "יתרה"},
	}, dataRows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestUploadStatementMatchesAndPersists(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.addTenant(t, "ישראל ישראלי")

	data := workbook(t,
		[]any{"15/01/25", "1001", "לאומי - ישראל ישראלי", "300", "", "5,300"},
		[]any{"16/01/25", "1002", "הפועלים - אלמוני פלוני", "450", "", "5,750"},
		[]any{"17/01/25", "1003", "עמלת ניהול חשבון", "", "12", "5,738"},
	)

	result, err := env.svc.UploadStatement(env.building.ID, data, "jan.xlsx", true)
	require.NoError(t, err)

	assert.Equal(t, "01/2025", result.Period)
	assert.Equal(t, 2, result.TotalTransactions)
	assert.Equal(t, 2, result.PaymentTransactions)
	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 1, result.Unmatched)
	assert.Equal(t, "50.0%", result.MatchRate)

	stmt, err := env.statements.GetStatement(result.StatementID)
	require.NoError(t, err)
	assert.Equal(t, 1, stmt.PeriodMonth)
	assert.Equal(t, 2025, stmt.PeriodYear)

	txns, err := env.statements.ListTransactions(result.StatementID, repository.AllTransactions())
	require.NoError(t, err)
	require.Len(t, txns, 2)

	matchedByDesc := map[string]domain.Transaction{}
	for _, txn := range txns {
		matchedByDesc[txn.Description] = txn
	}
	exact := matchedByDesc["לאומי - ישראל ישראלי"]
	assert.Equal(t, tenant.ID, exact.MatchedTenantID)
	assert.Equal(t, domain.MethodExact, exact.MatchMethod)
	assert.True(t, exact.IsConfirmed)

	stranger := matchedByDesc["הפועלים - אלמוני פלוני"]
	assert.Empty(t, stranger.MatchedTenantID)
	assert.False(t, stranger.IsConfirmed)
}

func TestUploadStatementMappingShortCircuit(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.addTenant(t, "רחל לוי")

	// The payer alias looks nothing like the tenant name; only the
	// remembered mapping can link them.
	require.NoError(t, env.mappings.Insert(&domain.NameMapping{
		ID:         uuid.NewString(),
		BuildingID: env.building.ID,
		BankName:   "חברת גבייה בעמ",
		TenantID:   tenant.ID,
		CreatedBy:  domain.MappingManual,
		CreatedAt:  time.Now().UTC(),
	}))

	data := workbook(t, []any{"15/01/25", "1001", "לאומי - חברת גבייה בעמ", "300", "", "300"})

	result, err := env.svc.UploadStatement(env.building.ID, data, "jan.xlsx", true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Matched)

	txns, err := env.statements.ListTransactions(result.StatementID, repository.AllTransactions())
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, tenant.ID, txns[0].MatchedTenantID)
	assert.Equal(t, domain.MethodManual, txns[0].MatchMethod)
	assert.Equal(t, 1.0, txns[0].MatchConfidence)
	assert.True(t, txns[0].IsConfirmed)
}

func TestUploadStatementWithoutAutoMatch(t *testing.T) {
	env := newTestEnv(t)
	env.addTenant(t, "ישראל ישראלי")

	data := workbook(t, []any{"15/01/25", "1001", "לאומי - ישראל ישראלי", "300", "", "300"})

	result, err := env.svc.UploadStatement(env.building.ID, data, "jan.xlsx", false)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Matched)
	assert.Equal(t, 0, result.Unmatched)
	assert.Equal(t, 1, result.PaymentTransactions)

	txns, err := env.statements.ListTransactions(result.StatementID, repository.AllTransactions())
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Empty(t, txns[0].MatchedTenantID)
}

func TestUploadStatementUnreadableFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.UploadStatement(env.building.ID, []byte("garbage"), "bad.xlsx", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, statement.ErrUnreadableStatement)
}
