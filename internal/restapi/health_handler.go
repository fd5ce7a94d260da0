package restapi

import (
	"net/http"

	"wlmonitor.org/internal/models"
)

type healthStatus struct {
	Status            string `json:"status"`
	Polling           bool   `json:"polling"`
	Watched           []int  `json:"watched"`
	SnapshotAvailable bool   `json:"snapshotAvailable"`
	Subscribers       int    `json:"subscribers"`
	Lines             int    `json:"lines"`
	StopPoints        int    `json:"stopPoints"`
	StopGroups        int    `json:"stopGroups"`
}

func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Status:            "ok",
		Polling:           api.Poller.IsPolling(),
		Watched:           api.Poller.Watched(),
		SnapshotAvailable: api.Poller.Snapshot() != nil,
		Subscribers:       api.Poller.SubscriberCount(),
		Lines:             len(api.Catalog.Lines()),
		StopPoints:        len(api.Catalog.StopPoints()),
		StopGroups:        len(api.Catalog.StopGroups()),
	}
	api.sendResponse(w, r, models.NewEntryResponse(status))
}
