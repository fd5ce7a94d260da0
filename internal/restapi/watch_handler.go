package restapi

import (
	"log/slog"
	"net/http"

	"wlmonitor.org/internal/logging"
	"wlmonitor.org/internal/models"
)

func (api *RestAPI) watchListHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewListResponse(api.Poller.Watched(), false))
}

// watchHandler adds a stop group to the watch-set. Only groups known to the
// static catalog can be watched; the next fetch cycle picks it up.
func (api *RestAPI) watchHandler(w http.ResponseWriter, r *http.Request) {
	diva, ok := api.requireIntParam(w, r, "diva")
	if !ok {
		return
	}

	if _, found := api.Catalog.StopGroupByDiva(diva); !found {
		api.sendNotFound(w, r)
		return
	}

	api.Poller.Watch(diva)
	logging.LogOperation(logging.FromContext(r.Context()), "stop_group_watched", slog.Int("diva", diva))

	api.sendResponse(w, r, models.NewListResponse(api.Poller.Watched(), false))
}

func (api *RestAPI) unwatchHandler(w http.ResponseWriter, r *http.Request) {
	diva, ok := api.requireIntParam(w, r, "diva")
	if !ok {
		return
	}

	api.Poller.Unwatch(diva)
	logging.LogOperation(logging.FromContext(r.Context()), "stop_group_unwatched", slog.Int("diva", diva))

	api.sendResponse(w, r, models.NewListResponse(api.Poller.Watched(), false))
}
