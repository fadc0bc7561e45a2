package domain

import "time"

type OwnershipType string

const (
	OwnershipOwner    OwnershipType = "owner"
	OwnershipLandlord OwnershipType = "landlord"
	OwnershipRenter   OwnershipType = "renter"
)

type Language string

const (
	LanguageHebrew  Language = "he"
	LanguageEnglish Language = "en"
)

type Tenant struct {
	ID          string `json:"id"`
	ApartmentID string `json:"apartment_id"`
	BuildingID  string `json:"building_id"`
	// Name is the display name and may be abbreviated; FullName is the
	// registered name used for bank matching and defaults to Name.
	Name              string        `json:"name"`
	FullName          string        `json:"full_name,omitempty"`
	Phone             string        `json:"phone,omitempty"`
	Email             string        `json:"email,omitempty"`
	Language          Language      `json:"language"`
	OwnershipType     OwnershipType `json:"ownership_type"`
	IsCommitteeMember bool          `json:"is_committee_member"`
	HasStandingOrder  bool          `json:"has_standing_order"`
	Notes             string        `json:"notes,omitempty"`
	IsActive          bool          `json:"is_active"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// MatchName returns the name to use for bank matching.
func (t *Tenant) MatchName() string {
	if t.FullName != "" {
		return t.FullName
	}
	return t.Name
}
