package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inei-oti/activos-backend/internal/domain/assets"
)

func TestBuildAssetWorkbook(t *testing.T) {
	rows := []assets.SafeRow{
		{
			ID: 1, Category: "Printer", Location: "Warehouse", Status: "Operational",
			Responsible: "Carlos Diaz", AssetTagInternal: "INT-PRN-001",
			OwnershipType: "INSTITUTION", HasPadlockKey: true, HasLicense: false,
		},
		{
			ID: 2, Category: "Laptop", Location: "Secretaria", Status: "Operational",
			Responsible: "Ana Rojas", ControlPatrimonial: "CP-100", Serial: "SN-9",
			OwnershipType: "PROVIDER", ProviderName: "Rentech SAC",
		},
	}

	f, err := BuildAssetWorkbook(rows)
	require.NoError(t, err)

	got, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", got)

	got, err = f.GetCellValue(sheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Printer", got)

	got, err = f.GetCellValue(sheetName, "L2")
	require.NoError(t, err)
	assert.Equal(t, "Yes", got)

	got, err = f.GetCellValue(sheetName, "M2")
	require.NoError(t, err)
	assert.Equal(t, "No", got)

	got, err = f.GetCellValue(sheetName, "K3")
	require.NoError(t, err)
	assert.Equal(t, "Rentech SAC", got)
}

func TestWorkbookCarriesNoSecretColumns(t *testing.T) {
	f, err := BuildAssetWorkbook([]assets.SafeRow{{ID: 1, HasPadlockKey: true, HasLicense: true}})
	require.NoError(t, err)

	cells, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.NotEmpty(t, cells)
	for _, h := range cells[0] {
		assert.NotContains(t, h, "Key Value")
		assert.NotEqual(t, "cpu_padlock_key", h)
		assert.NotEqual(t, "license_secret", h)
	}
	// The presence flags survive as Yes/No text.
	assert.Equal(t, "Yes", cells[1][11])
	assert.Equal(t, "Yes", cells[1][12])
}
