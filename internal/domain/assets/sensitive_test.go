package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inei-oti/activos-backend/internal/roles"
)

func TestRevealForNonPrivilegedCaller(t *testing.T) {
	guard := NewGuard(nil)
	data := &SensitiveData{AssetID: 1, CPUPadlockKey: "PAD-XYZ", LicenseSecret: "LIC-XYZ"}

	viewer := roles.Caller{UserID: 2, Authenticated: true, Roles: []string{roles.Viewer}}
	view := guard.Reveal(data, viewer)

	assert.Nil(t, view.CPUPadlockKey)
	assert.Nil(t, view.LicenseSecret)
	assert.True(t, view.HasPadlockKey)
	assert.True(t, view.HasLicense)
}

func TestRevealForAdmin(t *testing.T) {
	guard := NewGuard(nil)
	data := &SensitiveData{AssetID: 1, CPUPadlockKey: "PAD-XYZ", LicenseSecret: "LIC-XYZ"}

	admin := roles.Caller{UserID: 1, Authenticated: true, Roles: []string{roles.Admin}}
	view := guard.Reveal(data, admin)

	require.NotNil(t, view.CPUPadlockKey)
	require.NotNil(t, view.LicenseSecret)
	assert.Equal(t, "PAD-XYZ", *view.CPUPadlockKey)
	assert.Equal(t, "LIC-XYZ", *view.LicenseSecret)
	assert.True(t, view.HasPadlockKey)
	assert.True(t, view.HasLicense)
}

func TestRevealForSuperuser(t *testing.T) {
	guard := NewGuard(nil)
	data := &SensitiveData{AssetID: 1, CPUPadlockKey: "PAD-XYZ"}

	root := roles.Caller{UserID: 1, Authenticated: true, Superuser: true}
	view := guard.Reveal(data, root)

	require.NotNil(t, view.CPUPadlockKey)
	assert.Equal(t, "PAD-XYZ", *view.CPUPadlockKey)
}

func TestRevealForUnauthenticatedCaller(t *testing.T) {
	guard := NewGuard(nil)
	data := &SensitiveData{AssetID: 1, LicenseSecret: "LIC-XYZ"}

	// Presence flags stay accurate even with no authentication at all.
	view := guard.Reveal(data, roles.Caller{})
	assert.Nil(t, view.LicenseSecret)
	assert.False(t, view.HasPadlockKey)
	assert.True(t, view.HasLicense)
}

func TestRevealNilRecord(t *testing.T) {
	guard := NewGuard(nil)
	admin := roles.Caller{UserID: 1, Authenticated: true, Superuser: true}

	view := guard.Reveal(nil, admin)
	assert.Nil(t, view.CPUPadlockKey)
	assert.Nil(t, view.LicenseSecret)
	assert.False(t, view.HasPadlockKey)
	assert.False(t, view.HasLicense)
}

func TestGuardWithInjectedPolicy(t *testing.T) {
	// Alternate policy engine: nobody may see values.
	guard := NewGuard(func(roles.Caller) bool { return false })
	data := &SensitiveData{AssetID: 1, CPUPadlockKey: "PAD-XYZ"}

	view := guard.Reveal(data, roles.Caller{UserID: 1, Authenticated: true, Superuser: true})
	assert.Nil(t, view.CPUPadlockKey)
	assert.True(t, view.HasPadlockKey)
}
