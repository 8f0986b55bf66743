package api

import "net/http"

// Register mounts every API route on mux. Method-qualified patterns need
// go 1.22+ routing, which the toolchain directive already guarantees.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard", h.handleDashboard)

	mux.HandleFunc("GET /api/assets", h.handleListAssets)
	mux.HandleFunc("POST /api/assets", h.handleCreateAsset)
	mux.HandleFunc("GET /api/assets/{id}", h.handleAssetDetail)
	mux.HandleFunc("PUT /api/assets/{id}", h.handleUpdateAsset)
	mux.HandleFunc("GET /api/assets/{id}/events", h.handleAssetEvents)
	mux.HandleFunc("GET /api/assets/{id}/assignments", h.handleAssignmentHistory)
	mux.HandleFunc("POST /api/assets/{id}/assign", h.handleAssign)
	mux.HandleFunc("POST /api/assets/{id}/reassign", h.handleReassign)
	mux.HandleFunc("GET /api/assets/{id}/sensitive", h.handleSensitive)
	mux.HandleFunc("PUT /api/assets/{id}/sensitive", h.handleUpsertSensitive)
	mux.HandleFunc("GET /api/assets/{id}/specs/{kind}", h.handleGetSpecs)
	mux.HandleFunc("PUT /api/assets/{id}/specs/{kind}", h.handlePutSpecs)
	mux.HandleFunc("GET /api/assets/{id}/licenses", h.handleListLicenses)
	mux.HandleFunc("POST /api/assets/{id}/licenses", h.handleAddLicense)
	mux.HandleFunc("POST /api/assets/{id}/maintenance", h.handleOpenMaintenance)
	mux.HandleFunc("POST /api/assets/{id}/replacement", h.handleCreateReplacement)
	mux.HandleFunc("POST /api/assets/{id}/decommission", h.handleDecommission)

	mux.HandleFunc("GET /api/maintenance", h.handleListMaintenance)
	mux.HandleFunc("POST /api/maintenance/{id}/close", h.handleCloseMaintenance)

	mux.HandleFunc("GET /api/consumables", h.handleListItems)
	mux.HandleFunc("POST /api/consumables", h.handleCreateItem)
	mux.HandleFunc("GET /api/consumables/{id}/stock", h.handleStock)
	mux.HandleFunc("GET /api/consumables/{id}/kardex", h.handleKardex)
	mux.HandleFunc("POST /api/consumables/{id}/movements", h.handleRecordMovement)

	mux.HandleFunc("GET /api/catalog/categories", h.handleListCategories)
	mux.HandleFunc("POST /api/catalog/categories", h.handleCreateCategory)
	mux.HandleFunc("GET /api/catalog/locations", h.handleListLocations)
	mux.HandleFunc("POST /api/catalog/locations", h.handleCreateLocation)
	mux.HandleFunc("DELETE /api/catalog/locations/{id}", h.handleDeleteLocation)
	mux.HandleFunc("GET /api/catalog/statuses", h.handleListStatuses)
	mux.HandleFunc("POST /api/catalog/statuses", h.handleCreateStatus)
	mux.HandleFunc("GET /api/catalog/reasons", h.handleListReasons)
	mux.HandleFunc("POST /api/catalog/reasons", h.handleCreateReason)

	mux.HandleFunc("GET /api/employees", h.handleSearchEmployees)
	mux.HandleFunc("POST /api/employees", h.handleCreateEmployee)

	mux.HandleFunc("GET /api/reports/assets.xlsx", h.handleAssetReport)
}
