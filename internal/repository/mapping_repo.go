package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vaadbayit/reconciler/internal/domain"
)

type MappingRepo struct {
	db *sql.DB
}

func NewMappingRepo(db *sql.DB) *MappingRepo {
	return &MappingRepo{db: db}
}

// Insert stores a remembered payer-name mapping. Duplicates are ignored.
func (r *MappingRepo) Insert(m *domain.NameMapping) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO name_mappings
		(id, building_id, bank_name, tenant_id, created_by, created_at)
		VALUES (?,?,?,?,?,?)`,
		m.ID, m.BuildingID, m.BankName, m.TenantID, string(m.CreatedBy),
		m.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert name mapping: %w", err)
	}
	return nil
}

// FindTenantID looks up a remembered mapping for a payer name within a
// building. Returns ErrNotFound when no mapping exists.
func (r *MappingRepo) FindTenantID(buildingID, bankName string) (string, error) {
	var tenantID string
	err := r.db.QueryRow(
		`SELECT tenant_id FROM name_mappings
		 WHERE building_id = ? AND bank_name = ?
		 ORDER BY created_at DESC LIMIT 1`,
		buildingID, bankName,
	).Scan(&tenantID)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find mapping: %w", err)
	}
	return tenantID, nil
}

func (r *MappingRepo) ListByBuilding(buildingID string) ([]domain.NameMapping, error) {
	rows, err := r.db.Query(
		`SELECT id, building_id, bank_name, tenant_id, created_by, created_at
		 FROM name_mappings WHERE building_id = ? ORDER BY created_at DESC`, buildingID)
	if err != nil {
		return nil, fmt.Errorf("query mappings: %w", err)
	}
	defer rows.Close()

	var mappings []domain.NameMapping
	for rows.Next() {
		var m domain.NameMapping
		var createdBy, createdAt string
		if err := rows.Scan(&m.ID, &m.BuildingID, &m.BankName, &m.TenantID, &createdBy, &createdAt); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		m.CreatedBy = domain.MappingOrigin(createdBy)
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}
