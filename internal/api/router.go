package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vaadbayit/reconciler/internal/ingestion"
	"github.com/vaadbayit/reconciler/internal/matching"
	"github.com/vaadbayit/reconciler/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	buildingRepo *repository.BuildingRepo,
	tenantRepo *repository.TenantRepo,
	stmtRepo *repository.StatementRepo,
	mappingRepo *repository.MappingRepo,
	messageRepo *repository.MessageRepo,
	matcher *matching.Engine,
	ingestionSvc *ingestion.Service,
) http.Handler {
	h := &Handlers{
		buildingRepo: buildingRepo,
		tenantRepo:   tenantRepo,
		stmtRepo:     stmtRepo,
		mappingRepo:  mappingRepo,
		messageRepo:  messageRepo,
		matcher:      matcher,
		ingestionSvc: ingestionSvc,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Get("/", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Buildings and apartments.
		r.Post("/buildings", h.CreateBuilding)
		r.Get("/buildings", h.ListBuildings)
		r.Get("/buildings/{buildingID}", h.GetBuilding)
		r.Put("/buildings/{buildingID}", h.UpdateBuilding)
		r.Post("/buildings/{buildingID}/apartments", h.CreateApartment)
		r.Get("/buildings/{buildingID}/apartments", h.ListApartments)

		// Tenants.
		r.Post("/tenants", h.CreateTenant)
		r.Get("/tenants/{tenantID}", h.GetTenant)
		r.Put("/tenants/{tenantID}", h.UpdateTenant)
		r.Delete("/tenants/{tenantID}", h.DeactivateTenant)
		r.Get("/buildings/{buildingID}/tenants", h.ListBuildingTenants)

		// Statements and matching.
		r.Post("/statements/{buildingID}/upload", h.UploadStatement)
		r.Get("/statements/{statementID}/transactions", h.ListStatementTransactions)
		r.Get("/buildings/{buildingID}/statements", h.ListBuildingStatements)
		r.Post("/transactions/{transactionID}/match/{tenantID}", h.MatchTransaction)
		r.Get("/transactions/{transactionID}/suggestions", h.SuggestMatches)

		// Payments.
		r.Get("/payments/{buildingID}/status", h.GetPaymentStatus)
		r.Get("/payments/{buildingID}/unpaid", h.GetUnpaidTenants)
		r.Get("/payments/{buildingID}/history", h.GetBuildingHistory)
		r.Get("/payments/tenant/{tenantID}/history", h.GetTenantHistory)

		// Messages.
		r.Post("/messages/{buildingID}/generate-reminders", h.GenerateReminders)
		r.Post("/messages/{messageID}/mark-sent", h.MarkMessageSent)
	})

	return r
}
