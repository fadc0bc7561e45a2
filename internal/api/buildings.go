package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vaadbayit/reconciler/internal/domain"
)

type buildingRequest struct {
	Name                   string           `json:"name"`
	Address                string           `json:"address"`
	City                   string           `json:"city"`
	BankAccountNumber      string           `json:"bank_account_number"`
	ExpectedMonthlyPayment *decimal.Decimal `json:"expected_monthly_payment"`
}

func (h *Handlers) CreateBuilding(w http.ResponseWriter, r *http.Request) {
	var req buildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if req.Name == "" || req.Address == "" || req.City == "" {
		writeError(w, http.StatusBadRequest, "name, address and city are required")
		return
	}

	now := time.Now().UTC()
	building := &domain.Building{
		ID:                     uuid.NewString(),
		Name:                   req.Name,
		Address:                req.Address,
		City:                   req.City,
		BankAccountNumber:      req.BankAccountNumber,
		ExpectedMonthlyPayment: req.ExpectedMonthlyPayment,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := h.buildingRepo.Insert(building); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, building)
}

func (h *Handlers) ListBuildings(w http.ResponseWriter, r *http.Request) {
	buildings, err := h.buildingRepo.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(buildings),
		"buildings": buildings,
	})
}

func (h *Handlers) GetBuilding(w http.ResponseWriter, r *http.Request) {
	building, err := h.buildingRepo.GetByID(chi.URLParam(r, "buildingID"))
	if err != nil {
		notFoundOrError(w, err, "building")
		return
	}
	writeJSON(w, http.StatusOK, building)
}

func (h *Handlers) UpdateBuilding(w http.ResponseWriter, r *http.Request) {
	building, err := h.buildingRepo.GetByID(chi.URLParam(r, "buildingID"))
	if err != nil {
		notFoundOrError(w, err, "building")
		return
	}

	var req buildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	if req.Name != "" {
		building.Name = req.Name
	}
	if req.Address != "" {
		building.Address = req.Address
	}
	if req.City != "" {
		building.City = req.City
	}
	if req.BankAccountNumber != "" {
		building.BankAccountNumber = req.BankAccountNumber
	}
	if req.ExpectedMonthlyPayment != nil {
		building.ExpectedMonthlyPayment = req.ExpectedMonthlyPayment
	}

	if err := h.buildingRepo.Update(building); err != nil {
		notFoundOrError(w, err, "building")
		return
	}
	writeJSON(w, http.StatusOK, building)
}

type apartmentRequest struct {
	Number          int              `json:"number"`
	Floor           int              `json:"floor"`
	ExpectedPayment *decimal.Decimal `json:"expected_payment"`
}

func (h *Handlers) CreateApartment(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")
	if _, err := h.buildingRepo.GetByID(buildingID); err != nil {
		notFoundOrError(w, err, "building")
		return
	}

	var req apartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if req.Number <= 0 {
		writeError(w, http.StatusBadRequest, "apartment number must be positive")
		return
	}

	apartment := &domain.Apartment{
		ID:              uuid.NewString(),
		BuildingID:      buildingID,
		Number:          req.Number,
		Floor:           req.Floor,
		ExpectedPayment: req.ExpectedPayment,
	}
	if err := h.buildingRepo.InsertApartment(apartment); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, apartment)
}

func (h *Handlers) ListApartments(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")
	apartments, err := h.buildingRepo.ListApartments(buildingID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"building_id": buildingID,
		"count":       len(apartments),
		"apartments":  apartments,
	})
}
