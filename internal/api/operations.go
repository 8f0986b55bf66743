package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/inei-oti/activos-backend/internal/domain/operations"
	"github.com/inei-oti/activos-backend/internal/errs"
	"github.com/inei-oti/activos-backend/internal/roles"
)

type maintenanceJSON struct {
	ID          int64   `json:"id"`
	AssetID     int64   `json:"asset_id"`
	Type        string  `json:"maintenance_type"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	OpenedAt    string  `json:"opened_at"`
	ClosedAt    *string `json:"closed_at"`
	PerformedBy *int64  `json:"performed_by"`
}

func toMaintenanceJSON(m operations.MaintenanceRecord) maintenanceJSON {
	out := maintenanceJSON{
		ID:          m.ID,
		AssetID:     m.AssetID,
		Type:        string(m.Type),
		Status:      string(m.Status),
		Description: m.Description,
		OpenedAt:    m.OpenedAt.Format(time.RFC3339),
		PerformedBy: m.PerformedBy,
	}
	if m.ClosedAt != nil {
		closed := m.ClosedAt.Format(time.RFC3339)
		out.ClosedAt = &closed
	}
	return out
}

func (h *Handlers) handleOpenMaintenance(w http.ResponseWriter, r *http.Request) {
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
		Type        string `json:"maintenance_type"`
		Description string `json:"description"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	typ := operations.MaintenanceType(req.Type)
	if typ != operations.Preventive && typ != operations.Corrective {
		h.writeError(w, errs.FieldErrors{"maintenance_type": "Unknown maintenance type."})
		return
	}
	m, err := h.ops.OpenMaintenance(r.Context(), id, typ, req.Description, h.actorID(c))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMaintenanceJSON(*m))
}

func (h *Handlers) handleListMaintenance(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	assetID, _ := strconv.ParseInt(r.URL.Query().Get("asset_id"), 10, 64)
	list, err := h.ops.ListMaintenance(r.Context(), assetID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]maintenanceJSON, 0, len(list))
	for _, m := range list {
		out = append(out, toMaintenanceJSON(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"maintenance": out})
}

func (h *Handlers) handleCloseMaintenance(w http.ResponseWriter, r *http.Request) {
	if !roles.CanManageAssets(h.caller(r)) {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	m, err := h.ops.CloseMaintenance(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMaintenanceJSON(*m))
}

func (h *Handlers) handleCreateReplacement(w http.ResponseWriter, r *http.Request) {
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
		ReplacementAssetID *int64 `json:"replacement_asset_id"`
		Reason             string `json:"reason"`
		ReplacementDate    string `json:"replacement_date"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if req.Reason == "" {
		h.writeError(w, errs.FieldErrors{"reason": "Reason is required."})
		return
	}
	date := time.Now()
	if req.ReplacementDate != "" {
		d, err := time.Parse("2006-01-02", req.ReplacementDate)
		if err != nil {
			h.writeError(w, errs.FieldErrors{"replacement_date": "Invalid date, expected YYYY-MM-DD."})
			return
		}
		date = d
	}
	rec, err := h.ops.CreateReplacement(r.Context(), operations.ReplacementRecord{
		AssetID:            id,
		ReplacementAssetID: req.ReplacementAssetID,
		Reason:             req.Reason,
		ReplacementDate:    date,
		ApprovedBy:         h.actorID(c),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id": rec.ID, "asset_id": rec.AssetID,
		"replacement_asset_id": rec.ReplacementAssetID,
		"reason":               rec.Reason,
		"replacement_date":     rec.ReplacementDate.Format("2006-01-02"),
		"approved_by":          rec.ApprovedBy,
	})
}

func (h *Handlers) handleDecommission(w http.ResponseWriter, r *http.Request) {
	c := h.caller(r)
	if !roles.IsAdmin(c) {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	var req struct {
		Reason          string `json:"reason"`
		DisposalMethod  string `json:"disposal_method"`
		CertificateCode string `json:"certificate_code"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	status, err := h.catalog.StatusByName(r.Context(), "Decommissioned")
	if err != nil {
		h.writeError(w, err)
		return
	}
	if status == nil {
		h.writeError(w, errs.Conflictf("status Decommissioned is not seeded"))
		return
	}
	rec, err := h.ops.Decommission(r.Context(), operations.DecommissionRecord{
		AssetID:         id,
		Reason:          req.Reason,
		DisposalMethod:  req.DisposalMethod,
		CertificateCode: req.CertificateCode,
		ApprovedBy:      h.actorID(c),
	}, status.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id": rec.ID, "asset_id": rec.AssetID, "reason": rec.Reason,
		"decommission_date": rec.DecommissionDate.Format("2006-01-02"),
		"disposal_method":   rec.DisposalMethod,
		"certificate_code":  rec.CertificateCode,
		"approved_by":       rec.ApprovedBy,
	})
}
