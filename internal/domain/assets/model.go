package assets

import "time"

type OwnershipType string

const (
	OwnershipInstitution OwnershipType = "INSTITUTION"
	OwnershipProvider    OwnershipType = "PROVIDER"
)

// Asset is one tracked institutional device. Identifier fields are optional
// individually but at least one of ControlPatrimonial / AssetTagInternal must
// be set; empty string means unset (stored as NULL so the partial uniques hold).
type Asset struct {
	ID int64

	CategoryID            int64
	LocationID            int64
	StatusID              int64
	ResponsibleEmployeeID int64

	Observations    string
	AcquisitionDate *time.Time

	ControlPatrimonial string
	Serial             string
	AssetTagInternal   string

	OwnershipType OwnershipType
	ProviderName  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Label is the human identifier used in listings and event descriptions.
func (a Asset) Label() string {
	if a.ControlPatrimonial != "" {
		return a.ControlPatrimonial
	}
	if a.AssetTagInternal != "" {
		return a.AssetTagInternal
	}
	return ""
}

// Detail is an asset joined with its reference names and current custody,
// shaped for the detail endpoint.
type Detail struct {
	Asset
	CategoryName    string
	LocationName    string
	StatusName      string
	ResponsibleName string

	CurrentAssigneeID   *int64
	CurrentAssigneeName string
}

// SafeRow is the report projection of an asset. It carries presence flags for
// the secret fields but never the values themselves.
type SafeRow struct {
	ID                 int64  `json:"id"`
	Category           string `json:"category"`
	Location           string `json:"location"`
	Status             string `json:"status"`
	Responsible        string `json:"responsible"`
	CurrentAssigned    string `json:"current_assigned"`
	AssetTagInternal   string `json:"asset_tag_internal"`
	ControlPatrimonial string `json:"control_patrimonial"`
	Serial             string `json:"serial"`
	OwnershipType      string `json:"ownership_type"`
	ProviderName       string `json:"provider_name"`
	HasPadlockKey      bool   `json:"has_padlock_key"`
	HasLicense         bool   `json:"has_license"`
}
