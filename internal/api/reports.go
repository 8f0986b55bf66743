package api

import (
	"net/http"
	"time"
)

// handleAssetReport streams the XLSX inventory export. The workbook carries
// presence flags for secret fields, never the values, so any authenticated
// caller may download it.
func (h *Handlers) handleAssetReport(w http.ResponseWriter, r *http.Request) {
	if !h.caller(r).Authenticated {
		forbidden(w)
		return
	}
	wb, err := h.reports.AssetWorkbook(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer func() { _ = wb.Close() }()

	name := "assets-" + time.Now().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := wb.Write(w); err != nil {
		h.log.Error("write xlsx report", "err", err)
	}
}
