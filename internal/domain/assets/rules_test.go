package assets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inei-oti/activos-backend/internal/domain/employees"
	"github.com/inei-oti/activos-backend/internal/errs"
)

type fakeCategories map[int64]string

func (f fakeCategories) CategoryName(_ context.Context, id int64) (string, error) {
	return f[id], nil
}

type fakeEmployees map[int64]employees.WorkerType

func (f fakeEmployees) WorkerTypeOf(_ context.Context, id int64) (employees.WorkerType, bool, error) {
	wt, ok := f[id]
	return wt, ok, nil
}

const (
	catCPU = iota + 1
	catTeleconference
	catWebcam
	catSoundConsole
)

func newTestValidator() *Validator {
	cats := fakeCategories{
		catCPU:            "CPU",
		catTeleconference: "Teleconference",
		catWebcam:         "Webcam",
		catSoundConsole:   "Sound Console",
	}
	emps := fakeEmployees{
		1: employees.Nombrado,
		2: employees.CAS,
		3: employees.Locador,
	}
	return NewValidator(nil, cats, emps)
}

func baseAsset() *Asset {
	return &Asset{
		CategoryID:            catCPU,
		LocationID:            1,
		StatusID:              1,
		ResponsibleEmployeeID: 1,
		AssetTagInternal:      "INT-0001",
		OwnershipType:         OwnershipInstitution,
	}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestValidAssetPasses(t *testing.T) {
	v := newTestValidator()
	require.NoError(t, v.Validate(context.Background(), baseAsset()))
}

func TestIdentifierRequired(t *testing.T) {
	v := newTestValidator()
	a := baseAsset()
	a.AssetTagInternal = ""

	err := v.Validate(context.Background(), a)
	fe, ok := errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "asset_tag_internal")
}

func TestAcquisitionDateRequiredWithControlPatrimonial(t *testing.T) {
	v := newTestValidator()
	a := baseAsset()
	a.ControlPatrimonial = "CP-1"

	err := v.Validate(context.Background(), a)
	fe, ok := errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "acquisition_date")

	a.AcquisitionDate = date(2025, time.March, 1)
	require.NoError(t, v.Validate(context.Background(), a))
}

func TestProviderOwnedRules(t *testing.T) {
	v := newTestValidator()
	ctx := context.Background()

	a := baseAsset()
	a.OwnershipType = OwnershipProvider
	err := v.Validate(ctx, a)
	fe, ok := errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "provider_name")

	a.ProviderName = "Rentech SAC"
	a.ControlPatrimonial = "CP-2"
	a.AcquisitionDate = date(2025, time.March, 1)
	err = v.Validate(ctx, a)
	fe, ok = errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "control_patrimonial")

	a.ControlPatrimonial = ""
	require.NoError(t, v.Validate(ctx, a))
}

func TestResponsibleEmployeeRules(t *testing.T) {
	v := newTestValidator()
	ctx := context.Background()

	a := baseAsset()
	a.ResponsibleEmployeeID = 0
	err := v.Validate(ctx, a)
	fe, ok := errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "responsible_employee")

	a.ResponsibleEmployeeID = 999 // unknown
	err = v.Validate(ctx, a)
	fe, ok = errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "responsible_employee")

	a.ResponsibleEmployeeID = 3 // LOCADOR
	err = v.Validate(ctx, a)
	fe, ok = errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Responsible employee must be NOMBRADO or CAS.", fe["responsible_employee"])

	a.ResponsibleEmployeeID = 2 // CAS
	require.NoError(t, v.Validate(ctx, a))
}

func TestControlRequiredCategories(t *testing.T) {
	v := newTestValidator()
	ctx := context.Background()

	a := baseAsset()
	a.CategoryID = catTeleconference
	err := v.Validate(ctx, a)
	fe, ok := errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Teleconference requires control patrimonial.", fe["control_patrimonial"])

	a.ControlPatrimonial = "CP-TEL-1"
	a.AcquisitionDate = date(2025, time.June, 10)
	require.NoError(t, v.Validate(ctx, a))
}

func TestInternalTagRequiredCategories(t *testing.T) {
	v := newTestValidator()
	a := &Asset{
		CategoryID:            catWebcam,
		ResponsibleEmployeeID: 1,
		ControlPatrimonial:    "CP-WEBCAM-1",
		AcquisitionDate:       date(2025, time.June, 10),
		OwnershipType:         OwnershipInstitution,
	}

	err := v.Validate(context.Background(), a)
	fe, ok := errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Webcam requires internal code (asset_tag_internal).", fe["asset_tag_internal"])
}

func TestControlCategoryPassesWithBothIdentifiers(t *testing.T) {
	v := newTestValidator()
	a := baseAsset()
	a.CategoryID = catSoundConsole
	a.ControlPatrimonial = "CP-SOU-1"
	a.AcquisitionDate = date(2025, time.June, 10)

	require.NoError(t, v.Validate(context.Background(), a))
}

func TestAllViolationsReportedTogether(t *testing.T) {
	v := newTestValidator()
	a := &Asset{
		CategoryID:    catTeleconference,
		OwnershipType: OwnershipProvider,
	}

	err := v.Validate(context.Background(), a)
	fe, ok := errs.AsFieldErrors(err)
	require.True(t, ok)
	// No identifier, no provider name, missing responsible, and the category
	// demands control patrimonial: every rule reports, not just the first.
	assert.Contains(t, fe, "asset_tag_internal")
	assert.Contains(t, fe, "provider_name")
	assert.Contains(t, fe, "responsible_employee")
	assert.Contains(t, fe, "control_patrimonial")
}

func TestPolicyIsExtensibleWithoutValidatorChanges(t *testing.T) {
	policy := DefaultIdentifierPolicy()
	policy["Drone"] = []IdentifierKind{IdentifierControlPatrimonial, IdentifierInternalTag}

	cats := fakeCategories{50: "Drone"}
	emps := fakeEmployees{1: employees.Nombrado}
	v := NewValidator(policy, cats, emps)

	a := &Asset{CategoryID: 50, ResponsibleEmployeeID: 1, OwnershipType: OwnershipInstitution, AssetTagInternal: "INT-DRO-1"}
	err := v.Validate(context.Background(), a)
	fe, ok := errs.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "control_patrimonial")

	a.ControlPatrimonial = "CP-DRO-1"
	a.AcquisitionDate = date(2025, time.July, 1)
	require.NoError(t, v.Validate(context.Background(), a))
}
