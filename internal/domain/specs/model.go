package specs

import (
	"time"

	"github.com/inei-oti/activos-backend/internal/errs"
)

// Kind names one per-category detail record type. Each asset carries at most
// one record per kind.
type Kind string

const (
	KindComputer       Kind = "computer"
	KindPeripheral     Kind = "peripheral"
	KindPrinter        Kind = "printer"
	KindNetwork        Kind = "network"
	KindTeleconference Kind = "teleconference"
	KindCamera         Kind = "camera"
)

func (k Kind) Valid() bool {
	switch k {
	case KindComputer, KindPeripheral, KindPrinter, KindNetwork, KindTeleconference, KindCamera:
		return true
	}
	return false
}

type ComputerSpecs struct {
	AssetID    int64  `json:"asset_id"`
	CPUModel   string `json:"cpu_model"`
	RAMGB      int    `json:"ram_gb"`
	StorageGB  int    `json:"storage_gb"`
	OSName     string `json:"os_name"`
	IPAddress  string `json:"ip_address"`
	MACAddress string `json:"mac_address"`
}

func (c ComputerSpecs) Validate() error {
	fe := errs.FieldErrors{}
	if c.CPUModel == "" {
		fe["cpu_model"] = "CPU model is required."
	}
	if c.RAMGB <= 0 {
		fe["ram_gb"] = "RAM must be positive."
	}
	if c.StorageGB <= 0 {
		fe["storage_gb"] = "Storage must be positive."
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

type PeripheralDetails struct {
	AssetID      int64  `json:"asset_id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Connectivity string `json:"connectivity"`
}

type PrinterDetails struct {
	AssetID         int64  `json:"asset_id"`
	PrintTechnology string `json:"print_technology"`
	PPM             int    `json:"ppm"`
	SupportsDuplex  bool   `json:"supports_duplex"`
}

type NetworkDeviceDetails struct {
	AssetID      int64  `json:"asset_id"`
	Ports        int    `json:"ports"`
	Managed      bool   `json:"managed"`
	WiFiStandard string `json:"wifi_standard"`
}

type TeleconferenceDetails struct {
	AssetID           int64  `json:"asset_id"`
	CameraResolution  string `json:"camera_resolution"`
	MicrophoneCount   int    `json:"microphone_count"`
	SpeakerPowerWatts int    `json:"speaker_power_watts"`
}

type CameraDetails struct {
	AssetID     int64  `json:"asset_id"`
	Resolution  string `json:"resolution"`
	FieldOfView int    `json:"field_of_view"`
}

// License is one software license tied to an asset. The license secret itself
// lives with the asset's sensitive data; this row only carries the metadata.
type License struct {
	ID          int64      `json:"id"`
	AssetID     int64      `json:"asset_id"`
	ProductName string     `json:"product_name"`
	Vendor      string     `json:"vendor"`
	Seats       int        `json:"seats"`
	ExpiresOn   *time.Time `json:"expires_on"`
	IsActive    bool       `json:"is_active"`
	Notes       string     `json:"notes"`
}

func (l License) Validate() error {
	fe := errs.FieldErrors{}
	if l.ProductName == "" {
		fe["product_name"] = "Product name is required."
	}
	if l.Seats < 1 {
		fe["seats"] = "Seats must be at least 1."
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}
