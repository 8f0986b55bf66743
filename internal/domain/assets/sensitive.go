package assets

import (
	"time"

	"github.com/inei-oti/activos-backend/internal/roles"
)

// SensitiveData holds the secret fields of an asset (0..1 per asset,
// cascade-deleted with it).
type SensitiveData struct {
	AssetID       int64
	CPUPadlockKey string
	LicenseSecret string
	UpdatedBy     *int64
	UpdatedAt     time.Time
}

// SensitiveView is what any caller may see. Values are only populated on the
// privileged path; presence flags are always accurate, since presence is not
// sensitive — the value is.
type SensitiveView struct {
	CPUPadlockKey *string `json:"cpu_padlock_key"`
	LicenseSecret *string `json:"license_secret"`
	HasPadlockKey bool    `json:"has_padlock_key"`
	HasLicense    bool    `json:"has_license"`
}

// Guard gates visibility of secret values behind an injected capability
// predicate, so alternate policy engines can be plugged in.
type Guard struct {
	canView func(roles.Caller) bool
}

func NewGuard(canView func(roles.Caller) bool) *Guard {
	if canView == nil {
		canView = roles.IsAdmin
	}
	return &Guard{canView: canView}
}

// Reveal builds the caller-appropriate view. A nil record yields all-false
// presence flags and no values for anyone.
func (g *Guard) Reveal(d *SensitiveData, caller roles.Caller) SensitiveView {
	if d == nil {
		return SensitiveView{}
	}
	view := SensitiveView{
		HasPadlockKey: d.CPUPadlockKey != "",
		HasLicense:    d.LicenseSecret != "",
	}
	if g.canView(caller) {
		key, lic := d.CPUPadlockKey, d.LicenseSecret
		view.CPUPadlockKey = &key
		view.LicenseSecret = &lic
	}
	return view
}
