package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vaadbayit/reconciler/internal/domain"
)

type tenantRequest struct {
	ApartmentID       string `json:"apartment_id"`
	Name              string `json:"name"`
	FullName          string `json:"full_name"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Language          string `json:"language"`
	OwnershipType     string `json:"ownership_type"`
	IsCommitteeMember *bool  `json:"is_committee_member"`
	HasStandingOrder  *bool  `json:"has_standing_order"`
	Notes             string `json:"notes"`
}

func (h *Handlers) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if req.Name == "" || req.ApartmentID == "" {
		writeError(w, http.StatusBadRequest, "name and apartment_id are required")
		return
	}

	apartment, err := h.buildingRepo.GetApartment(req.ApartmentID)
	if err != nil {
		notFoundOrError(w, err, "apartment")
		return
	}

	language := domain.LanguageHebrew
	if req.Language != "" {
		language = domain.Language(req.Language)
	}
	ownership := domain.OwnershipOwner
	if req.OwnershipType != "" {
		ownership = domain.OwnershipType(req.OwnershipType)
	}

	now := time.Now().UTC()
	tenant := &domain.Tenant{
		ID:                uuid.NewString(),
		ApartmentID:       apartment.ID,
		BuildingID:        apartment.BuildingID,
		Name:              req.Name,
		FullName:          req.FullName,
		Phone:             req.Phone,
		Email:             req.Email,
		Language:          language,
		OwnershipType:     ownership,
		IsCommitteeMember: req.IsCommitteeMember != nil && *req.IsCommitteeMember,
		HasStandingOrder:  req.HasStandingOrder != nil && *req.HasStandingOrder,
		Notes:             req.Notes,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := h.tenantRepo.Insert(tenant); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, tenant)
}

func (h *Handlers) GetTenant(w http.ResponseWriter, r *http.Request) {
	tenant, err := h.tenantRepo.GetByID(chi.URLParam(r, "tenantID"))
	if err != nil {
		notFoundOrError(w, err, "tenant")
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

func (h *Handlers) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	tenant, err := h.tenantRepo.GetByID(chi.URLParam(r, "tenantID"))
	if err != nil {
		notFoundOrError(w, err, "tenant")
		return
	}

	var req tenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	if req.ApartmentID != "" && req.ApartmentID != tenant.ApartmentID {
		apartment, err := h.buildingRepo.GetApartment(req.ApartmentID)
		if err != nil {
			notFoundOrError(w, err, "apartment")
			return
		}
		tenant.ApartmentID = apartment.ID
	}
	if req.Name != "" {
		tenant.Name = req.Name
	}
	if req.FullName != "" {
		tenant.FullName = req.FullName
	}
	if req.Phone != "" {
		tenant.Phone = req.Phone
	}
	if req.Email != "" {
		tenant.Email = req.Email
	}
	if req.Language != "" {
		tenant.Language = domain.Language(req.Language)
	}
	if req.OwnershipType != "" {
		tenant.OwnershipType = domain.OwnershipType(req.OwnershipType)
	}
	if req.Notes != "" {
		tenant.Notes = req.Notes
	}
	if req.IsCommitteeMember != nil {
		tenant.IsCommitteeMember = *req.IsCommitteeMember
	}
	if req.HasStandingOrder != nil {
		tenant.HasStandingOrder = *req.HasStandingOrder
	}

	if err := h.tenantRepo.Update(tenant); err != nil {
		notFoundOrError(w, err, "tenant")
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

func (h *Handlers) DeactivateTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	if err := h.tenantRepo.Deactivate(tenantID); err != nil {
		notFoundOrError(w, err, "tenant")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"tenant_id": tenantID,
		"status":    "deactivated",
	})
}

func (h *Handlers) ListBuildingTenants(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")
	activeOnly := r.URL.Query().Get("include_inactive") != "true"

	tenants, err := h.tenantRepo.ListByBuilding(buildingID, activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"building_id": buildingID,
		"count":       len(tenants),
		"tenants":     tenants,
	})
}
