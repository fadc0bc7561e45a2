package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaadbayit/reconciler/internal/api"
	"github.com/vaadbayit/reconciler/internal/domain"
	"github.com/vaadbayit/reconciler/internal/ingestion"
	"github.com/vaadbayit/reconciler/internal/matching"
	"github.com/vaadbayit/reconciler/internal/repository"
	"github.com/vaadbayit/reconciler/internal/statement"
)

type apiEnv struct {
	router  http.Handler
	tenants *repository.TenantRepo
	tenant  *domain.Tenant
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	db, err := repository.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	buildingRepo := repository.NewBuildingRepo(db)
	tenantRepo := repository.NewTenantRepo(db)
	stmtRepo := repository.NewStatementRepo(db)
	mappingRepo := repository.NewMappingRepo(db)
	messageRepo := repository.NewMessageRepo(db)

	parser := statement.NewParser(statement.DefaultConfig())
	matcher := matching.NewEngine(matching.Config{})
	ingestionSvc := ingestion.NewService(parser, matcher, tenantRepo, stmtRepo, mappingRepo)

	router := api.NewRouter(buildingRepo, tenantRepo, stmtRepo, mappingRepo,
		messageRepo, matcher, ingestionSvc)

	now := time.Now().UTC().Truncate(time.Second)
	building := &domain.Building{
		ID:        uuid.NewString(),
		Name:      "הרצל 15",
		Address:   "הרצל 15",
		City:      "תל אביב",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, buildingRepo.Insert(building))

	apartment := &domain.Apartment{
		ID:         uuid.NewString(),
		BuildingID: building.ID,
		Number:     3,
		Floor:      2,
	}
	require.NoError(t, buildingRepo.InsertApartment(apartment))

	tenant := &domain.Tenant{
		ID:                uuid.NewString(),
		ApartmentID:       apartment.ID,
		BuildingID:        building.ID,
		Name:              "לוי רחל",
		Language:          domain.LanguageHebrew,
		OwnershipType:     domain.OwnershipOwner,
		IsCommitteeMember: true,
		HasStandingOrder:  true,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, tenantRepo.Insert(tenant))

	return &apiEnv{router: router, tenants: tenantRepo, tenant: tenant}
}

func (env *apiEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateTenantPartialKeepsFlags(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/tenants/"+env.tenant.ID,
		map[string]any{"phone": "+972501234567"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := env.tenants.GetByID(env.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "+972501234567", got.Phone)
	// Fields absent from the request stay untouched.
	assert.True(t, got.IsCommitteeMember)
	assert.True(t, got.HasStandingOrder)
	assert.Equal(t, "לוי רחל", got.Name)
}

func TestUpdateTenantClearsFlagsExplicitly(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/tenants/"+env.tenant.ID,
		map[string]any{"is_committee_member": false, "has_standing_order": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := env.tenants.GetByID(env.tenant.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCommitteeMember)
	assert.False(t, got.HasStandingOrder)
}

func TestHealth(t *testing.T) {
	env := newAPIEnv(t)

	for _, path := range []string{"/", "/api/v1/health"} {
		rec := env.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"], path)
	}
}

func TestUpdateTenantNotFound(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/tenants/missing",
		map[string]any{"phone": "+972501234567"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
