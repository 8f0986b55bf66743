package operations

import "time"

type MaintenanceType string

const (
	Preventive MaintenanceType = "PREVENTIVE"
	Corrective MaintenanceType = "CORRECTIVE"
)

type MaintenanceStatus string

const (
	MaintenanceOpen       MaintenanceStatus = "OPEN"
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceClosed     MaintenanceStatus = "CLOSED"
)

type MaintenanceRecord struct {
	ID          int64
	AssetID     int64
	Type        MaintenanceType
	Status      MaintenanceStatus
	Description string
	OpenedAt    time.Time
	ClosedAt    *time.Time
	PerformedBy *int64
}

type ReplacementRecord struct {
	ID                 int64
	AssetID            int64
	ReplacementAssetID *int64
	Reason             string
	ReplacementDate    time.Time
	ApprovedBy         *int64
}

// DecommissionRecord is the terminal paper trail of an asset: at most one per
// asset, created together with the status flip.
type DecommissionRecord struct {
	ID               int64
	AssetID          int64
	Reason           string
	DecommissionDate time.Time
	DisposalMethod   string
	CertificateCode  string
	ApprovedBy       *int64
}
