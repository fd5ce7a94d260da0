package restapi

import (
	"net/http"

	"wlmonitor.org/internal/models"
)

// monitorHandler serves the latest validated monitor snapshot.
func (api *RestAPI) monitorHandler(w http.ResponseWriter, r *http.Request) {
	snapshot := api.Poller.Snapshot()
	if snapshot == nil {
		api.writeError(w, http.StatusNotFound, "no monitor snapshot available yet")
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(snapshot))
}
