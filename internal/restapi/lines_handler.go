package restapi

import (
	"net/http"

	"wlmonitor.org/internal/models"
)

func (api *RestAPI) linesHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewListResponse(api.Catalog.Lines(), false))
}

func (api *RestAPI) lineHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.requireIntParam(w, r, "id")
	if !ok {
		return
	}

	line, found := api.Catalog.LineByID(id)
	if !found {
		api.sendNotFound(w, r)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(line))
}
