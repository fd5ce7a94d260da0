package restapi

import (
	"net/http"

	"wlmonitor.org/internal/models"
)

func (api *RestAPI) stopHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.requireIntParam(w, r, "id")
	if !ok {
		return
	}

	stop, found := api.Catalog.StopPointByID(id)
	if !found {
		api.sendNotFound(w, r)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(stop))
}
