package api

import (
	"net/http"
	"time"

	"github.com/inei-oti/activos-backend/internal/domain/consumables"
	"github.com/inei-oti/activos-backend/internal/errs"
	"github.com/inei-oti/activos-backend/internal/infra/metrics"
	"github.com/inei-oti/activos-backend/internal/roles"
)

type movementJSON struct {
	ID        int64    `json:"id"`
	ItemID    int64    `json:"item_id"`
	Type      string   `json:"movement_type"`
	Quantity  int64    `json:"quantity"`
	UnitCost  *float64 `json:"unit_cost"`
	Reason    string   `json:"reason"`
	Reference string   `json:"reference"`
	CreatedAt string   `json:"created_at"`
	CreatedBy *int64   `json:"created_by"`
}

func toMovementJSON(m consumables.Movement) movementJSON {
	return movementJSON{
		ID:        m.ID,
		ItemID:    m.ItemID,
		Type:      string(m.Type),
		Quantity:  m.Quantity,
		UnitCost:  m.UnitCost,
		Reason:    m.Reason,
		Reference: m.Reference,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		CreatedBy: m.CreatedBy,
	}
}

func (h *Handlers) handleListItems(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	onlyActive := r.URL.Query().Get("all") == ""
	list, err := h.items.ListItems(r.Context(), onlyActive)
	if err != nil {
		h.writeError(w, err)
		return
	}
	type itemJSON struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		SKU          string `json:"sku"`
		Unit         string `json:"unit"`
		MinStock     int64  `json:"min_stock"`
		IsActive     bool   `json:"is_active"`
		CurrentStock int64  `json:"current_stock"`
		LowStock     bool   `json:"low_stock"`
	}
	out := make([]itemJSON, 0, len(list))
	for _, it := range list {
		out = append(out, itemJSON{
			ID: it.ID, Name: it.Name, SKU: it.SKU, Unit: it.Unit,
			MinStock: it.MinStock, IsActive: it.IsActive,
			CurrentStock: it.CurrentStock, LowStock: it.LowStock,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handlers) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	if !roles.CanManageAssets(h.caller(r)) {
		forbidden(w)
		return
	}
	var req struct {
		Name     string `json:"name"`
		SKU      string `json:"sku"`
		Unit     string `json:"unit"`
		MinStock int64  `json:"min_stock"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if req.Name == "" {
		h.writeError(w, errs.FieldErrors{"name": "Name is required."})
		return
	}
	it, err := h.items.CreateItem(r.Context(), consumables.Item{
		Name: req.Name, SKU: req.SKU, Unit: req.Unit,
		MinStock: req.MinStock, IsActive: true,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id": it.ID, "name": it.Name, "sku": it.SKU, "unit": it.Unit,
		"min_stock": it.MinStock, "is_active": it.IsActive,
	})
}

func (h *Handlers) handleRecordMovement(w http.ResponseWriter, r *http.Request) {
	c := h.caller(r)
	if !roles.CanManageAssets(c) {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	var req struct {
		Type      string   `json:"movement_type"`
		Quantity  int64    `json:"quantity"`
		UnitCost  *float64 `json:"unit_cost"`
		Reason    string   `json:"reason"`
		Reference string   `json:"reference"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	m, err := h.stock.Record(r.Context(), consumables.MovementParams{
		ItemID:    id,
		Type:      consumables.MovementType(req.Type),
		Quantity:  req.Quantity,
		UnitCost:  req.UnitCost,
		Reason:    req.Reason,
		Reference: req.Reference,
		ActorID:   h.actorID(c),
	})
	if err != nil {
		metrics.MovementsTotal.WithLabelValues(req.Type, "rejected").Inc()
		h.writeError(w, err)
		return
	}
	metrics.MovementsTotal.WithLabelValues(string(m.Type), "ok").Inc()
	writeJSON(w, http.StatusCreated, toMovementJSON(*m))
}

func (h *Handlers) handleKardex(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	list, err := h.items.Kardex(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]movementJSON, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementJSON(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"movements": out})
}

func (h *Handlers) handleStock(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	stock, err := h.stock.CurrentStock(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	low, err := h.stock.LowStock(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item_id": id, "current_stock": stock, "low_stock": low})
}
