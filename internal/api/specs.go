package api

import (
	"net/http"
	"time"

	"github.com/inei-oti/activos-backend/internal/domain/specs"
	"github.com/inei-oti/activos-backend/internal/errs"
	"github.com/inei-oti/activos-backend/internal/roles"
)

func (h *Handlers) handleGetSpecs(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	kind := specs.Kind(r.PathValue("kind"))
	if !kind.Valid() {
		h.writeError(w, errs.ErrNotFound)
		return
	}

	var rec any
	switch kind {
	case specs.KindComputer:
		rec, err = nilable(h.specs.Computer(r.Context(), id))
	case specs.KindPeripheral:
		rec, err = nilable(h.specs.Peripheral(r.Context(), id))
	case specs.KindPrinter:
		rec, err = nilable(h.specs.Printer(r.Context(), id))
	case specs.KindNetwork:
		rec, err = nilable(h.specs.Network(r.Context(), id))
	case specs.KindTeleconference:
		rec, err = nilable(h.specs.Teleconference(r.Context(), id))
	case specs.KindCamera:
		rec, err = nilable(h.specs.Camera(r.Context(), id))
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	if rec == nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// nilable collapses a typed nil pointer into an untyped nil so the missing
// record check above works across the record types.
func nilable[T any](rec *T, err error) (any, error) {
	if err != nil || rec == nil {
		return nil, err
	}
	return rec, nil
}

func (h *Handlers) handlePutSpecs(w http.ResponseWriter, r *http.Request) {
	if !roles.CanManageAssets(h.caller(r)) {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	kind := specs.Kind(r.PathValue("kind"))
	if !kind.Valid() {
		h.writeError(w, errs.ErrNotFound)
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

	var saved any
	switch kind {
	case specs.KindComputer:
		var req specs.ComputerSpecs
		if decode(r, &req) != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
			return
		}
		req.AssetID = id
		if err := req.Validate(); err != nil {
			h.writeError(w, err)
			return
		}
		saved, err = nilable(h.specs.UpsertComputer(r.Context(), req))
	case specs.KindPeripheral:
		var req specs.PeripheralDetails
		if decode(r, &req) != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
			return
		}
		req.AssetID = id
		saved, err = nilable(h.specs.UpsertPeripheral(r.Context(), req))
	case specs.KindPrinter:
		var req specs.PrinterDetails
		if decode(r, &req) != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
			return
		}
		req.AssetID = id
		saved, err = nilable(h.specs.UpsertPrinter(r.Context(), req))
	case specs.KindNetwork:
		var req specs.NetworkDeviceDetails
		if decode(r, &req) != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
			return
		}
		req.AssetID = id
		saved, err = nilable(h.specs.UpsertNetwork(r.Context(), req))
	case specs.KindTeleconference:
		var req specs.TeleconferenceDetails
		if decode(r, &req) != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
			return
		}
		req.AssetID = id
		saved, err = nilable(h.specs.UpsertTeleconference(r.Context(), req))
	case specs.KindCamera:
		var req specs.CameraDetails
		if decode(r, &req) != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
			return
		}
		req.AssetID = id
		saved, err = nilable(h.specs.UpsertCamera(r.Context(), req))
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handlers) handleListLicenses(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	list, err := h.specs.Licenses(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if list == nil {
		list = []specs.License{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"licenses": list})
}

func (h *Handlers) handleAddLicense(w http.ResponseWriter, r *http.Request) {
	if !roles.CanManageAssets(h.caller(r)) {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	var req struct {
		ProductName string `json:"product_name"`
		Vendor      string `json:"vendor"`
		Seats       int    `json:"seats"`
		ExpiresOn   string `json:"expires_on"`
		Notes       string `json:"notes"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if req.Seats == 0 {
		req.Seats = 1
	}
	lic := specs.License{
		AssetID:     id,
		ProductName: req.ProductName,
		Vendor:      req.Vendor,
		Seats:       req.Seats,
		Notes:       req.Notes,
	}
	if req.ExpiresOn != "" {
		d, err := time.Parse("2006-01-02", req.ExpiresOn)
		if err != nil {
			h.writeError(w, errs.FieldErrors{"expires_on": "Invalid date, expected YYYY-MM-DD."})
			return
		}
		lic.ExpiresOn = &d
	}
	if err := lic.Validate(); err != nil {
		h.writeError(w, err)
		return
	}
	saved, err := h.specs.AddLicense(r.Context(), lic)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}
