package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vaadbayit/reconciler/internal/domain"
)

type TenantRepo struct {
	db *sql.DB
}

func NewTenantRepo(db *sql.DB) *TenantRepo {
	return &TenantRepo{db: db}
}

func (r *TenantRepo) Insert(t *domain.Tenant) error {
	_, err := r.db.Exec(
		`INSERT INTO tenants
		(id, apartment_id, building_id, name, full_name, phone, email, language,
		 ownership_type, is_committee_member, has_standing_order, notes, is_active,
		 created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.ApartmentID, t.BuildingID, t.Name, t.FullName, t.Phone, t.Email,
		string(t.Language), string(t.OwnershipType), t.IsCommitteeMember,
		t.HasStandingOrder, t.Notes, t.IsActive,
		t.CreatedAt.Format(time.RFC3339), t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (r *TenantRepo) GetByID(id string) (*domain.Tenant, error) {
	row := r.db.QueryRow(selectTenant+` WHERE id = ?`, id)
	return scanTenant(row)
}

func (r *TenantRepo) Update(t *domain.Tenant) error {
	res, err := r.db.Exec(
		`UPDATE tenants SET apartment_id = ?, name = ?, full_name = ?, phone = ?,
		        email = ?, language = ?, ownership_type = ?, is_committee_member = ?,
		        has_standing_order = ?, notes = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		t.ApartmentID, t.Name, t.FullName, t.Phone, t.Email, string(t.Language),
		string(t.OwnershipType), t.IsCommitteeMember, t.HasStandingOrder, t.Notes,
		t.IsActive, time.Now().UTC().Format(time.RFC3339), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a tenant; history keeps referencing it.
func (r *TenantRepo) Deactivate(id string) error {
	res, err := r.db.Exec(
		`UPDATE tenants SET is_active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("deactivate tenant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// TenantWithApartment joins a tenant with its apartment fields; the matching
// roster and the payment reconciler both consume this shape.
type TenantWithApartment struct {
	Tenant          domain.Tenant
	ApartmentNumber int
	Floor           int
	// ApartmentExpected is the apartment-level fee override, if any.
	ApartmentExpected *decimal.Decimal
}

// ListActiveWithApartments returns the active tenants of a building joined
// with their apartment rows, ordered by apartment number.
func (r *TenantRepo) ListActiveWithApartments(buildingID string) ([]TenantWithApartment, error) {
	rows, err := r.db.Query(
		`SELECT t.id, t.apartment_id, t.building_id, t.name, t.full_name,
		        t.phone, t.email, t.language, t.ownership_type,
		        t.is_committee_member, t.has_standing_order, t.notes,
		        t.is_active, t.created_at, t.updated_at,
		        a.number, a.floor, a.expected_payment
		 FROM tenants t
		 JOIN apartments a ON a.id = t.apartment_id
		 WHERE t.building_id = ? AND t.is_active = 1
		 ORDER BY a.number, t.name`, buildingID)
	if err != nil {
		return nil, fmt.Errorf("query tenants with apartments: %w", err)
	}
	defer rows.Close()

	var result []TenantWithApartment
	for rows.Next() {
		var twa TenantWithApartment
		var fullName, phone, email, notes, expected sql.NullString
		var language, ownership, createdAt, updatedAt string

		err := rows.Scan(&twa.Tenant.ID, &twa.Tenant.ApartmentID,
			&twa.Tenant.BuildingID, &twa.Tenant.Name, &fullName, &phone,
			&email, &language, &ownership, &twa.Tenant.IsCommitteeMember,
			&twa.Tenant.HasStandingOrder, &notes, &twa.Tenant.IsActive,
			&createdAt, &updatedAt, &twa.ApartmentNumber, &twa.Floor, &expected)
		if err != nil {
			return nil, fmt.Errorf("scan tenant with apartment: %w", err)
		}

		twa.Tenant.FullName = fullName.String
		twa.Tenant.Phone = phone.String
		twa.Tenant.Email = email.String
		twa.Tenant.Notes = notes.String
		twa.Tenant.Language = domain.Language(language)
		twa.Tenant.OwnershipType = domain.OwnershipType(ownership)
		twa.Tenant.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		twa.Tenant.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		twa.ApartmentExpected = scanDecimal(expected)
		result = append(result, twa)
	}
	return result, rows.Err()
}

func (r *TenantRepo) ListByBuilding(buildingID string, activeOnly bool) ([]domain.Tenant, error) {
	query := selectTenant + ` WHERE building_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(query, buildingID)
	if err != nil {
		return nil, fmt.Errorf("query tenants: %w", err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, *t)
	}
	return tenants, rows.Err()
}

const selectTenant = `SELECT id, apartment_id, building_id, name, full_name,
	phone, email, language, ownership_type, is_committee_member,
	has_standing_order, notes, is_active, created_at, updated_at FROM tenants`

func scanTenant(row rowScanner) (*domain.Tenant, error) {
	var t domain.Tenant
	var fullName, phone, email, notes sql.NullString
	var language, ownership, createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.ApartmentID, &t.BuildingID, &t.Name, &fullName,
		&phone, &email, &language, &ownership, &t.IsCommitteeMember,
		&t.HasStandingOrder, &notes, &t.IsActive, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	t.FullName = fullName.String
	t.Phone = phone.String
	t.Email = email.String
	t.Notes = notes.String
	t.Language = domain.Language(language)
	t.OwnershipType = domain.OwnershipType(ownership)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &t, nil
}
