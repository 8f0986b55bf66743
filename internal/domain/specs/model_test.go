package specs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inei-oti/activos-backend/internal/errs"
)

func TestComputerSpecsValidateReportsAllViolations(t *testing.T) {
	err := ComputerSpecs{AssetID: 1}.Validate()
	require.Error(t, err)

	fe, ok := errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "CPU model is required.", fe["cpu_model"])
	assert.Equal(t, "RAM must be positive.", fe["ram_gb"])
	assert.Equal(t, "Storage must be positive.", fe["storage_gb"])
}

func TestComputerSpecsValidateAcceptsCompleteRecord(t *testing.T) {
	err := ComputerSpecs{
		AssetID:   1,
		CPUModel:  "Intel Core i5-10400",
		RAMGB:     16,
		StorageGB: 512,
		OSName:    "Windows 11 Pro",
	}.Validate()
	assert.NoError(t, err)
}

func TestLicenseValidate(t *testing.T) {
	err := License{AssetID: 1}.Validate()
	require.Error(t, err)
	fe, ok := errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Product name is required.", fe["product_name"])
	assert.Equal(t, "Seats must be at least 1.", fe["seats"])

	assert.NoError(t, License{AssetID: 1, ProductName: "Office LTSC", Seats: 5}.Validate())
}

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindComputer, KindPeripheral, KindPrinter, KindNetwork, KindTeleconference, KindCamera} {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, Kind("scanner").Valid())
}
