package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/inei-oti/activos-backend/internal/domain/assets"
	"github.com/inei-oti/activos-backend/internal/domain/audit"
	"github.com/inei-oti/activos-backend/internal/errs"
	"github.com/inei-oti/activos-backend/internal/infra/metrics"
	"github.com/inei-oti/activos-backend/internal/roles"
)

type assetRequest struct {
	CategoryID            int64  `json:"category_id"`
	LocationID            int64  `json:"location_id"`
	StatusID              int64  `json:"status_id"`
	ResponsibleEmployeeID int64  `json:"responsible_employee_id"`
	Observations          string `json:"observations"`
	AcquisitionDate       string `json:"acquisition_date"`
	ControlPatrimonial    string `json:"control_patrimonial"`
	Serial                string `json:"serial"`
	AssetTagInternal      string `json:"asset_tag_internal"`
	OwnershipType         string `json:"ownership_type"`
	ProviderName          string `json:"provider_name"`
}

func (req assetRequest) toAsset() (assets.Asset, error) {
	a := assets.Asset{
		CategoryID:            req.CategoryID,
		LocationID:            req.LocationID,
		StatusID:              req.StatusID,
		ResponsibleEmployeeID: req.ResponsibleEmployeeID,
		Observations:          req.Observations,
		ControlPatrimonial:    req.ControlPatrimonial,
		Serial:                req.Serial,
		AssetTagInternal:      req.AssetTagInternal,
		OwnershipType:         assets.OwnershipType(req.OwnershipType),
		ProviderName:          req.ProviderName,
	}
	if a.OwnershipType == "" {
		a.OwnershipType = assets.OwnershipInstitution
	}
	if req.AcquisitionDate != "" {
		d, err := time.Parse("2006-01-02", req.AcquisitionDate)
		if err != nil {
			return a, errs.FieldErrors{"acquisition_date": "Invalid date, expected YYYY-MM-DD."}
		}
		a.AcquisitionDate = &d
	}
	return a, nil
}

type assetJSON struct {
	ID                    int64   `json:"id"`
	CategoryID            int64   `json:"category_id"`
	LocationID            int64   `json:"location_id"`
	StatusID              int64   `json:"status_id"`
	ResponsibleEmployeeID int64   `json:"responsible_employee_id"`
	Observations          string  `json:"observations"`
	AcquisitionDate       *string `json:"acquisition_date"`
	ControlPatrimonial    string  `json:"control_patrimonial"`
	Serial                string  `json:"serial"`
	AssetTagInternal      string  `json:"asset_tag_internal"`
	OwnershipType         string  `json:"ownership_type"`
	ProviderName          string  `json:"provider_name"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
}

func toAssetJSON(a assets.Asset) assetJSON {
	out := assetJSON{
		ID:                    a.ID,
		CategoryID:            a.CategoryID,
		LocationID:            a.LocationID,
		StatusID:              a.StatusID,
		ResponsibleEmployeeID: a.ResponsibleEmployeeID,
		Observations:          a.Observations,
		ControlPatrimonial:    a.ControlPatrimonial,
		Serial:                a.Serial,
		AssetTagInternal:      a.AssetTagInternal,
		OwnershipType:         string(a.OwnershipType),
		ProviderName:          a.ProviderName,
		CreatedAt:             a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             a.UpdatedAt.Format(time.RFC3339),
	}
	if a.AcquisitionDate != nil {
		d := a.AcquisitionDate.Format("2006-01-02")
		out.AcquisitionDate = &d
	}
	return out
}

type detailJSON struct {
	assetJSON
	CategoryName    string `json:"category_name"`
	LocationName    string `json:"location_name"`
	StatusName      string `json:"status_name"`
	ResponsibleName string `json:"responsible_name"`

	CurrentAssigneeID   *int64 `json:"current_assignee_id"`
	CurrentAssigneeName string `json:"current_assignee_name"`
}

func toDetailJSON(d assets.Detail) detailJSON {
	return detailJSON{
		assetJSON:           toAssetJSON(d.Asset),
		CategoryName:        d.CategoryName,
		LocationName:        d.LocationName,
		StatusName:          d.StatusName,
		ResponsibleName:     d.ResponsibleName,
		CurrentAssigneeID:   d.CurrentAssigneeID,
		CurrentAssigneeName: d.CurrentAssigneeName,
	}
}

func (h *Handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	counts, err := h.assets.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *Handlers) handleListAssets(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	list, err := h.assets.List(r.Context(), r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]detailJSON, 0, len(list))
	for _, d := range list {
		out = append(out, toDetailJSON(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"assets": out})
}

func (h *Handlers) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	c := h.caller(r)
	if !roles.CanManageAssets(c) {
		forbidden(w)
		return
	}
	var req assetRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	a, err := req.toAsset()
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.validator.Validate(r.Context(), &a); err != nil {
		metrics.ValidationFailuresTotal.Inc()
		h.writeError(w, err)
		return
	}
	created, err := h.assets.Create(r.Context(), a)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := h.events.Append(r.Context(), audit.Event{
		AssetID:     created.ID,
		Type:        audit.EventCreated,
		Description: "Created",
		CreatedBy:   h.actorID(c),
	}); err != nil {
		h.log.Error("append created event", "asset_id", created.ID, "err", err)
	}
	writeJSON(w, http.StatusCreated, toAssetJSON(*created))
}

func (h *Handlers) handleAssetDetail(w http.ResponseWriter, r *http.Request) {
	c := h.caller(r)
	if !c.Authenticated {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	d, err := h.assets.GetDetail(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if d == nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	sens, err := h.assets.GetSensitive(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"asset":     toDetailJSON(*d),
		"sensitive": h.guard.Reveal(sens, c),
	})
}

func (h *Handlers) handleUpdateAsset(w http.ResponseWriter, r *http.Request) {
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
	var req assetRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	a, err := req.toAsset()
	if err != nil {
		h.writeError(w, err)
		return
	}
	a.ID = id
	if err := h.validator.Validate(r.Context(), &a); err != nil {
		metrics.ValidationFailuresTotal.Inc()
		h.writeError(w, err)
		return
	}
	updated, err := h.assets.Update(r.Context(), a)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := h.events.Append(r.Context(), audit.Event{
		AssetID:     updated.ID,
		Type:        audit.EventUpdated,
		Description: "Updated",
		CreatedBy:   h.actorID(c),
	}); err != nil {
		h.log.Error("append updated event", "asset_id", updated.ID, "err", err)
	}
	writeJSON(w, http.StatusOK, toAssetJSON(*updated))
}

func (h *Handlers) handleAssetEvents(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	events, err := h.events.ListByAsset(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	type eventJSON struct {
		ID          int64  `json:"id"`
		Type        string `json:"type"`
		Description string `json:"description"`
		CreatedAt   string `json:"created_at"`
		CreatedBy   *int64 `json:"created_by"`
	}
	out := make([]eventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, eventJSON{
			ID:          e.ID,
			Type:        string(e.Type),
			Description: e.Description,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
			CreatedBy:   e.CreatedBy,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

func (h *Handlers) handleSensitive(w http.ResponseWriter, r *http.Request) {
	c := h.caller(r)
	if !c.Authenticated {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	sens, err := h.assets.GetSensitive(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.guard.Reveal(sens, c))
}

func (h *Handlers) handleUpsertSensitive(w http.ResponseWriter, r *http.Request) {
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
		CPUPadlockKey string `json:"cpu_padlock_key"`
		LicenseSecret string `json:"license_secret"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	owner, err := h.assets.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if owner == nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	saved, err := h.assets.UpsertSensitive(r.Context(), assets.SensitiveData{
		AssetID:       id,
		CPUPadlockKey: req.CPUPadlockKey,
		LicenseSecret: req.LicenseSecret,
		UpdatedBy:     h.actorID(c),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.guard.Reveal(saved, c))
}
