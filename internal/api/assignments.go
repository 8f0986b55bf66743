package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/inei-oti/activos-backend/internal/domain/assignments"
	"github.com/inei-oti/activos-backend/internal/errs"
	"github.com/inei-oti/activos-backend/internal/infra/metrics"
	"github.com/inei-oti/activos-backend/internal/roles"
)

type assignRequest struct {
	AssignedEmployeeID *int64 `json:"assigned_employee_id"`
	ReasonID           int64  `json:"reason_id"`
	Note               string `json:"note"`
}

type assignmentJSON struct {
	ID                 int64   `json:"id"`
	AssetID            int64   `json:"asset_id"`
	AssignedEmployeeID *int64  `json:"assigned_employee_id"`
	ReasonID           int64   `json:"reason_id"`
	StartAt            string  `json:"start_at"`
	EndAt              *string `json:"end_at"`
	IsCurrent          bool    `json:"is_current"`
}

func toAssignmentJSON(a assignments.Assignment) assignmentJSON {
	out := assignmentJSON{
		ID:                 a.ID,
		AssetID:            a.AssetID,
		AssignedEmployeeID: a.AssignedEmployeeID,
		ReasonID:           a.ReasonID,
		StartAt:            a.StartAt.Format(time.RFC3339),
		IsCurrent:          a.IsCurrent,
	}
	if a.EndAt != nil {
		end := a.EndAt.Format(time.RFC3339)
		out.EndAt = &end
	}
	return out
}

func (h *Handlers) handleAssign(w http.ResponseWriter, r *http.Request) {
	h.custodyOp(w, r, "assign", h.ledger.Assign)
}

func (h *Handlers) handleReassign(w http.ResponseWriter, r *http.Request) {
	h.custodyOp(w, r, "reassign", h.ledger.Reassign)
}

func (h *Handlers) custodyOp(w http.ResponseWriter, r *http.Request, action string, op func(ctx context.Context, p assignments.Params) (*assignments.Assignment, error)) {
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
	var req assignRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	a, err := op(r.Context(), assignments.Params{
		AssetID:            id,
		ReasonID:           req.ReasonID,
		AssignedEmployeeID: req.AssignedEmployeeID,
		ActorID:            h.actorID(c),
		Note:               req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrConflict):
			metrics.AssignmentsTotal.WithLabelValues(action, "conflict").Inc()
		default:
			metrics.AssignmentsTotal.WithLabelValues(action, "error").Inc()
		}
		h.writeError(w, err)
		return
	}
	metrics.AssignmentsTotal.WithLabelValues(action, "ok").Inc()
	writeJSON(w, http.StatusCreated, toAssignmentJSON(*a))
}

func (h *Handlers) handleAssignmentHistory(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, errs.ErrNotFound)
		return
	}
	list, err := h.history.History(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]assignmentJSON, 0, len(list))
	for _, a := range list {
		out = append(out, toAssignmentJSON(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": out})
}
