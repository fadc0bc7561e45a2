package domain

import "time"

type MappingOrigin string

const (
	MappingManual MappingOrigin = "manual"
	MappingAuto   MappingOrigin = "auto"
)

// NameMapping remembers a payer name as it appears on bank statements and the
// tenant it belongs to, so later uploads skip fuzzy matching for that name.
type NameMapping struct {
	ID         string        `json:"id"`
	BuildingID string        `json:"building_id"`
	BankName   string        `json:"bank_name"`
	TenantID   string        `json:"tenant_id"`
	CreatedBy  MappingOrigin `json:"created_by"`
	CreatedAt  time.Time     `json:"created_at"`
}
