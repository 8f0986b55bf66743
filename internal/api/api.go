package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/inei-oti/activos-backend/internal/domain/assets"
	"github.com/inei-oti/activos-backend/internal/domain/assignments"
	"github.com/inei-oti/activos-backend/internal/domain/audit"
	"github.com/inei-oti/activos-backend/internal/domain/catalog"
	"github.com/inei-oti/activos-backend/internal/domain/consumables"
	"github.com/inei-oti/activos-backend/internal/domain/employees"
	"github.com/inei-oti/activos-backend/internal/domain/operations"
	"github.com/inei-oti/activos-backend/internal/domain/specs"
	"github.com/inei-oti/activos-backend/internal/errs"
	"github.com/inei-oti/activos-backend/internal/reports"
	"github.com/inei-oti/activos-backend/internal/roles"
)

// AssetStore is the persistence surface the asset handlers need.
type AssetStore interface {
	Create(ctx context.Context, a assets.Asset) (*assets.Asset, error)
	Update(ctx context.Context, a assets.Asset) (*assets.Asset, error)
	GetByID(ctx context.Context, id int64) (*assets.Asset, error)
	GetDetail(ctx context.Context, id int64) (*assets.Detail, error)
	List(ctx context.Context, q string, limit, offset int) ([]assets.Detail, error)
	Dashboard(ctx context.Context) (*assets.DashboardCounts, error)
	GetSensitive(ctx context.Context, assetID int64) (*assets.SensitiveData, error)
	UpsertSensitive(ctx context.Context, d assets.SensitiveData) (*assets.SensitiveData, error)
}

// EventLog is the audit surface: append on writes, list for the detail view.
type EventLog interface {
	Append(ctx context.Context, e audit.Event) (*audit.Event, error)
	ListByAsset(ctx context.Context, assetID int64) ([]audit.Event, error)
}

// ItemCatalog covers consumable item CRUD and the kardex listing.
type ItemCatalog interface {
	CreateItem(ctx context.Context, it consumables.Item) (*consumables.Item, error)
	ListItems(ctx context.Context, onlyActive bool) ([]consumables.ItemWithStock, error)
	Kardex(ctx context.Context, itemID int64) ([]consumables.Movement, error)
}

// AssignmentHistory lists an asset's custody records.
type AssignmentHistory interface {
	History(ctx context.Context, assetID int64) ([]assignments.Assignment, error)
}

// Config names the trusted gateway headers carrying the caller identity.
type Config struct {
	UserHeader  string
	RolesHeader string
}

type Handlers struct {
	cfg Config
	log *slog.Logger

	assets    AssetStore
	validator *assets.Validator
	guard     *assets.Guard
	ledger    *assignments.Ledger
	history   AssignmentHistory
	events    EventLog
	stock     *consumables.Ledger
	items     ItemCatalog
	catalog   *catalog.Repo
	employees *employees.Repo
	ops       *operations.Repo
	specs     *specs.Repo
	reports   *reports.Service
}

func New(
	cfg Config,
	log *slog.Logger,
	store AssetStore,
	validator *assets.Validator,
	guard *assets.Guard,
	ledger *assignments.Ledger,
	history AssignmentHistory,
	events EventLog,
	stock *consumables.Ledger,
	items ItemCatalog,
	cat *catalog.Repo,
	emp *employees.Repo,
	ops *operations.Repo,
	sp *specs.Repo,
	rep *reports.Service,
) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{
		cfg: cfg, log: log,
		assets: store, validator: validator, guard: guard,
		ledger: ledger, history: history, events: events,
		stock: stock, items: items,
		catalog: cat, employees: emp, ops: ops, specs: sp, reports: rep,
	}
}

/* Caller identity */

// caller parses the identity forwarded by the auth gateway. An absent user
// header means an unauthenticated request; handlers decide what that may see.
func (h *Handlers) caller(r *http.Request) roles.Caller {
	raw := r.Header.Get(h.cfg.UserHeader)
	if raw == "" {
		return roles.Caller{}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return roles.Caller{}
	}
	c := roles.Caller{UserID: id, Authenticated: true}
	for _, role := range strings.Split(r.Header.Get(h.cfg.RolesHeader), ",") {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		if role == "SUPERUSER" {
			c.Superuser = true
			continue
		}
		c.Roles = append(c.Roles, role)
	}
	return c
}

func (h *Handlers) actorID(c roles.Caller) *int64 {
	if !c.Authenticated {
		return nil
	}
	id := c.UserID
	return &id
}

/* Responses */

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	if fe, ok := errs.AsFieldErrors(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fe})
		return
	}
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, errs.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.log.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func forbidden(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
