package api

import (
	"net/http"

	"github.com/inei-oti/activos-backend/internal/domain/employees"
	"github.com/inei-oti/activos-backend/internal/errs"
	"github.com/inei-oti/activos-backend/internal/roles"
)

func (h *Handlers) handleListCategories(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	list, err := h.catalog.ListCategories(r.Context(), r.URL.Query().Get("all") == "")
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, c := range list {
		out = append(out, map[string]any{
			"id": c.ID, "name": c.Name, "description": c.Description, "is_active": c.IsActive,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (h *Handlers) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	if !roles.IsAdmin(h.caller(r)) {
		forbidden(w)
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decode(r, &req); err != nil || req.Name == "" {
		h.writeError(w, errs.FieldErrors{"name": "Name is required."})
		return
	}
	c, err := h.catalog.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": c.ID, "name": c.Name})
}

func (h *Handlers) handleListLocations(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	list, err := h.catalog.ListLocations(r.Context(), r.URL.Query().Get("all") == "")
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, l := range list {
		out = append(out, map[string]any{
			"id": l.ID, "site": l.Site, "floor": l.Floor,
			"type": l.Type, "exact_name": l.ExactName, "is_active": l.IsActive,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": out})
}

func (h *Handlers) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	if !roles.IsAdmin(h.caller(r)) {
		forbidden(w)
		return
	}
	var req struct {
		Site      string `json:"site"`
		Floor     string `json:"floor"`
		Type      string `json:"type"`
		ExactName string `json:"exact_name"`
	}
	if err := decode(r, &req); err != nil || req.Site == "" {
		h.writeError(w, errs.FieldErrors{"site": "Site is required."})
		return
	}
	l, err := h.catalog.CreateLocation(r.Context(), req.Site, req.Floor, req.Type, req.ExactName)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": l.ID, "site": l.Site})
}

// handleDeleteLocation deactivates a referenced location instead of removing
// it, so historical assets keep a valid reference.
func (h *Handlers) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	if !roles.IsAdmin(h.caller(r)) {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	removed, err := h.catalog.SafeDeleteLocation(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed, "deactivated": !removed})
}

func (h *Handlers) handleListStatuses(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	list, err := h.catalog.ListStatuses(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, s := range list {
		out = append(out, map[string]any{"id": s.ID, "name": s.Name, "is_active": s.IsActive})
	}
	writeJSON(w, http.StatusOK, map[string]any{"statuses": out})
}

func (h *Handlers) handleCreateStatus(w http.ResponseWriter, r *http.Request) {
	if !roles.IsAdmin(h.caller(r)) {
		forbidden(w)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil || req.Name == "" {
		h.writeError(w, errs.FieldErrors{"name": "Name is required."})
		return
	}
	s, err := h.catalog.CreateStatus(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": s.ID, "name": s.Name})
}

func (h *Handlers) handleListReasons(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	list, err := h.catalog.ListAssignmentReasons(r.Context(), r.URL.Query().Get("all") == "")
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, reason := range list {
		out = append(out, map[string]any{
			"id": reason.ID, "name": reason.Name, "description": reason.Description, "is_active": reason.IsActive,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"reasons": out})
}

func (h *Handlers) handleCreateReason(w http.ResponseWriter, r *http.Request) {
	if !roles.IsAdmin(h.caller(r)) {
		forbidden(w)
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decode(r, &req); err != nil || req.Name == "" {
		h.writeError(w, errs.FieldErrors{"name": "Name is required."})
		return
	}
	reason, err := h.catalog.CreateAssignmentReason(r.Context(), req.Name, req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": reason.ID, "name": reason.Name})
}

func (h *Handlers) handleSearchEmployees(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	list, err := h.employees.Search(r.Context(), r.URL.Query().Get("q"), r.URL.Query().Get("all") == "")
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, e := range list {
		out = append(out, map[string]any{
			"id": e.ID, "dni": e.DNI, "display_name": e.DisplayName(),
			"worker_type": string(e.WorkerType), "email": e.Email,
			"is_active": e.IsActive,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"employees": out})
}

func (h *Handlers) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	if !roles.IsAdmin(h.caller(r)) {
		forbidden(w)
		return
	}
	var req struct {
		DNI        string `json:"dni"`
		FirstName  string `json:"first_name"`
		LastName   string `json:"last_name"`
		WorkerType string `json:"worker_type"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	fe := errs.FieldErrors{}
	if req.DNI == "" {
		fe["dni"] = "DNI is required."
	}
	if req.LastName == "" {
		fe["last_name"] = "Last name is required."
	}
	wt := employees.WorkerType(req.WorkerType)
	if !wt.Valid() {
		fe["worker_type"] = "Unknown worker type."
	}
	if len(fe) > 0 {
		h.writeError(w, fe)
		return
	}
	e, err := h.employees.Create(r.Context(), employees.Employee{
		DNI: req.DNI, FirstName: req.FirstName, LastName: req.LastName,
		WorkerType: wt, Email: req.Email, Phone: req.Phone, IsActive: true,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": e.ID, "display_name": e.DisplayName()})
}
