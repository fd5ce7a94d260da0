package restapi

import (
	"net/http"

	"wlmonitor.org/internal/models"
)

func (api *RestAPI) stopGroupsHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewListResponse(api.Catalog.StopGroups(), false))
}

func (api *RestAPI) stopGroupHandler(w http.ResponseWriter, r *http.Request) {
	diva, ok := api.requireIntParam(w, r, "diva")
	if !ok {
		return
	}

	group, found := api.Catalog.StopGroupByDiva(diva)
	if !found {
		api.sendNotFound(w, r)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(group))
}

// stopsForGroupHandler lists the stop points of a group in the group's own
// order.
func (api *RestAPI) stopsForGroupHandler(w http.ResponseWriter, r *http.Request) {
	diva, ok := api.requireIntParam(w, r, "diva")
	if !ok {
		return
	}

	if _, found := api.Catalog.StopGroupByDiva(diva); !found {
		api.sendNotFound(w, r)
		return
	}

	api.sendResponse(w, r, models.NewListResponse(api.Catalog.StopPointsByDiva(diva), false))
}

func (api *RestAPI) linesForGroupHandler(w http.ResponseWriter, r *http.Request) {
	diva, ok := api.requireIntParam(w, r, "diva")
	if !ok {
		return
	}

	if _, found := api.Catalog.StopGroupByDiva(diva); !found {
		api.sendNotFound(w, r)
		return
	}

	api.sendResponse(w, r, models.NewListResponse(api.Catalog.LinesForStopGroup(diva), false))
}
