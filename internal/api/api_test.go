package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inei-oti/activos-backend/internal/domain/assets"
	"github.com/inei-oti/activos-backend/internal/domain/assignments"
	"github.com/inei-oti/activos-backend/internal/domain/audit"
	"github.com/inei-oti/activos-backend/internal/domain/consumables"
	"github.com/inei-oti/activos-backend/internal/domain/employees"
	"github.com/inei-oti/activos-backend/internal/errs"
)

type fakeDirectory map[int64]string

func (d fakeDirectory) DisplayName(_ context.Context, id int64) (string, error) {
	return d[id], nil
}

type fakeAssetStore struct {
	byID      map[int64]*assets.Asset
	details   map[int64]*assets.Detail
	sensitive map[int64]*assets.SensitiveData
}

func (f *fakeAssetStore) Create(_ context.Context, a assets.Asset) (*assets.Asset, error) {
	a.ID = 1
	return &a, nil
}
func (f *fakeAssetStore) Update(_ context.Context, a assets.Asset) (*assets.Asset, error) {
	if f.byID[a.ID] == nil {
		return nil, errs.ErrNotFound
	}
	return &a, nil
}
func (f *fakeAssetStore) GetByID(_ context.Context, id int64) (*assets.Asset, error) {
	return f.byID[id], nil
}
func (f *fakeAssetStore) GetDetail(_ context.Context, id int64) (*assets.Detail, error) {
	return f.details[id], nil
}
func (f *fakeAssetStore) List(context.Context, string, int, int) ([]assets.Detail, error) {
	return nil, nil
}
func (f *fakeAssetStore) Dashboard(context.Context) (*assets.DashboardCounts, error) {
	return &assets.DashboardCounts{}, nil
}
func (f *fakeAssetStore) GetSensitive(_ context.Context, assetID int64) (*assets.SensitiveData, error) {
	return f.sensitive[assetID], nil
}
func (f *fakeAssetStore) UpsertSensitive(_ context.Context, d assets.SensitiveData) (*assets.SensitiveData, error) {
	if f.sensitive == nil {
		f.sensitive = map[int64]*assets.SensitiveData{}
	}
	f.sensitive[d.AssetID] = &d
	return &d, nil
}

type fakeEventLog struct{ events []audit.Event }

func (f *fakeEventLog) Append(_ context.Context, e audit.Event) (*audit.Event, error) {
	e.ID = int64(len(f.events) + 1)
	f.events = append(f.events, e)
	return &e, nil
}
func (f *fakeEventLog) ListByAsset(_ context.Context, assetID int64) ([]audit.Event, error) {
	var out []audit.Event
	for _, e := range f.events {
		if e.AssetID == assetID {
			out = append(out, e)
		}
	}
	return out, nil
}

type testEnv struct {
	handlers *Handlers
	assign   *assignments.InMemory
	items    *consumables.InMemory
	store    *fakeAssetStore
	events   *fakeEventLog
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	assignStore := assignments.NewInMemory()
	itemStore := consumables.NewInMemoryStore()
	store := &fakeAssetStore{
		byID:      map[int64]*assets.Asset{},
		details:   map[int64]*assets.Detail{},
		sensitive: map[int64]*assets.SensitiveData{},
	}
	events := &fakeEventLog{}
	dir := fakeDirectory{7: "Diana Gamarra"}

	h := New(
		Config{UserHeader: "X-Auth-User", RolesHeader: "X-Auth-Roles"},
		nil,
		store,
		assets.NewValidator(assets.DefaultIdentifierPolicy(), fakeCategories{10: "Printer"}, fakeEmployees{3: "NOMBRADO"}),
		assets.NewGuard(nil),
		assignments.NewLedger(assignStore, dir, nil),
		assignStore,
		events,
		consumables.NewLedger(itemStore, nil),
		nil,
		nil, nil, nil, nil, nil,
	)
	return &testEnv{handlers: h, assign: assignStore, items: itemStore, store: store, events: events}
}

type fakeCategories map[int64]string

func (f fakeCategories) CategoryName(_ context.Context, id int64) (string, error) {
	return f[id], nil
}

type fakeEmployees map[int64]employees.WorkerType

func (f fakeEmployees) WorkerTypeOf(_ context.Context, id int64) (employees.WorkerType, bool, error) {
	wt, ok := f[id]
	return wt, ok, nil
}

func do(h *Handlers, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.Register(mux)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

var asAdmin = map[string]string{"X-Auth-User": "9", "X-Auth-Roles": "ADMIN"}
var asViewer = map[string]string{"X-Auth-User": "5", "X-Auth-Roles": "VIEWER"}

func TestAssignEndpointCreatesCustody(t *testing.T) {
	env := newTestEnv(t)

	rec := do(env.handlers, http.MethodPost, "/api/assets/42/assign",
		`{"assigned_employee_id":7,"reason_id":1}`, asAdmin)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var got assignmentJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(42), got.AssetID)
	assert.True(t, got.IsCurrent)

	events := env.assign.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Assigned to Diana Gamarra", events[0].Description)
}

func TestAssignEndpointConflictsOnSecondAssign(t *testing.T) {
	env := newTestEnv(t)

	first := do(env.handlers, http.MethodPost, "/api/assets/42/assign", `{"reason_id":1}`, asAdmin)
	require.Equal(t, http.StatusCreated, first.Code)

	second := do(env.handlers, http.MethodPost, "/api/assets/42/assign", `{"reason_id":1}`, asAdmin)
	assert.Equal(t, http.StatusConflict, second.Code, second.Body.String())
}

func TestReassignEndpointClosesPrevious(t *testing.T) {
	env := newTestEnv(t)

	do(env.handlers, http.MethodPost, "/api/assets/42/assign",
		`{"assigned_employee_id":7,"reason_id":1}`, asAdmin)
	rec := do(env.handlers, http.MethodPost, "/api/assets/42/reassign", `{"reason_id":1}`, asAdmin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	history, err := env.assign.History(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.False(t, history[0].IsCurrent)
	assert.NotNil(t, history[0].EndAt)
	assert.True(t, history[1].IsCurrent)
}

func TestAssignEndpointForbiddenForViewer(t *testing.T) {
	env := newTestEnv(t)

	rec := do(env.handlers, http.MethodPost, "/api/assets/42/assign", `{"reason_id":1}`, asViewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMovementEndpointRejectsOverdraft(t *testing.T) {
	env := newTestEnv(t)
	item := env.items.AddItem(consumables.Item{Name: "Toner", IsActive: true})

	in := do(env.handlers, http.MethodPost, "/api/consumables/1/movements",
		`{"movement_type":"IN","quantity":5,"reason":"purchase"}`, asAdmin)
	require.Equal(t, http.StatusCreated, in.Code, in.Body.String())

	out := do(env.handlers, http.MethodPost, "/api/consumables/1/movements",
		`{"movement_type":"OUT","quantity":8,"reason":"issue"}`, asAdmin)
	require.Equal(t, http.StatusBadRequest, out.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(out.Body.Bytes(), &body))
	assert.Equal(t, "Cannot egress more than current stock.", body.Errors["quantity"])

	stock, err := env.items.Stock(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stock)
}

func TestSensitiveEndpointHidesValuesFromViewer(t *testing.T) {
	env := newTestEnv(t)
	env.store.sensitive[42] = &assets.SensitiveData{
		AssetID: 42, CPUPadlockKey: "K-991", LicenseSecret: "WIN-PRO",
	}

	rec := do(env.handlers, http.MethodGet, "/api/assets/42/sensitive", "", asViewer)
	require.Equal(t, http.StatusOK, rec.Code)

	var view assets.SensitiveView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Nil(t, view.CPUPadlockKey)
	assert.Nil(t, view.LicenseSecret)
	assert.True(t, view.HasPadlockKey)
	assert.True(t, view.HasLicense)
}

func TestSensitiveEndpointRevealsValuesToAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.store.sensitive[42] = &assets.SensitiveData{AssetID: 42, CPUPadlockKey: "K-991"}

	rec := do(env.handlers, http.MethodGet, "/api/assets/42/sensitive", "", asAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	var view assets.SensitiveView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotNil(t, view.CPUPadlockKey)
	assert.Equal(t, "K-991", *view.CPUPadlockKey)
}

func TestSensitiveUpsertForbiddenForTechnician(t *testing.T) {
	env := newTestEnv(t)

	rec := do(env.handlers, http.MethodPut, "/api/assets/42/sensitive",
		`{"cpu_padlock_key":"K-1"}`, map[string]string{"X-Auth-User": "5", "X-Auth-Roles": "TECHNICIAN"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateAssetReportsAllValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := do(env.handlers, http.MethodPost, "/api/assets",
		`{"category_id":10,"ownership_type":"PROVIDER","control_patrimonial":"CP-1"}`, asAdmin)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Provider name is required for provider-owned assets.", body.Errors["provider_name"])
	assert.Equal(t, "Provider-owned assets cannot have control patrimonial.", body.Errors["control_patrimonial"])
	assert.Equal(t, "Acquisition date is required when control patrimonial is set.", body.Errors["acquisition_date"])
	assert.Equal(t, "Responsible employee is required.", body.Errors["responsible_employee"])
	assert.Empty(t, env.events.events)
}

func TestCreateAssetAppendsCreatedEvent(t *testing.T) {
	env := newTestEnv(t)

	rec := do(env.handlers, http.MethodPost, "/api/assets",
		`{"category_id":10,"responsible_employee_id":3,"asset_tag_internal":"TI-77","control_patrimonial":"CP-9","acquisition_date":"2024-05-01"}`, asAdmin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, env.events.events, 1)
	assert.Equal(t, audit.EventCreated, env.events.events[0].Type)
	assert.Equal(t, "Created", env.events.events[0].Description)
	require.NotNil(t, env.events.events[0].CreatedBy)
	assert.Equal(t, int64(9), *env.events.events[0].CreatedBy)
}

func TestAssetDetailUnknownAssetIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := do(env.handlers, http.MethodGet, "/api/assets/99", "", asAdmin)
	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not found", body.Error)
}

func TestAssetDetailKnownAssetSucceeds(t *testing.T) {
	env := newTestEnv(t)
	env.store.details[42] = &assets.Detail{
		Asset:        assets.Asset{ID: 42, AssetTagInternal: "TI-42"},
		CategoryName: "Printer",
	}

	rec := do(env.handlers, http.MethodGet, "/api/assets/42", "", asViewer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"TI-42"`)
}

func TestUpdateUnknownAssetIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := do(env.handlers, http.MethodPut, "/api/assets/99",
		`{"category_id":10,"responsible_employee_id":3,"asset_tag_internal":"TI-77"}`, asAdmin)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestSensitiveUpsertUnknownAssetIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := do(env.handlers, http.MethodPut, "/api/assets/99/sensitive",
		`{"cpu_padlock_key":"K-1"}`, asAdmin)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	assert.Empty(t, env.store.sensitive)
}

func TestSensitiveUpsertKnownAssetSucceeds(t *testing.T) {
	env := newTestEnv(t)
	env.store.byID[42] = &assets.Asset{ID: 42}

	rec := do(env.handlers, http.MethodPut, "/api/assets/42/sensitive",
		`{"cpu_padlock_key":"K-1"}`, asAdmin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, env.store.sensitive[42])
	assert.Equal(t, "K-1", env.store.sensitive[42].CPUPadlockKey)
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := do(env.handlers, http.MethodGet, "/api/assets/42/sensitive", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
