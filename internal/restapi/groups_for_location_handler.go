package restapi

import (
	"net/http"

	"wlmonitor.org/internal/models"
	"wlmonitor.org/internal/utils"
)

const (
	defaultSearchRadius = 500
	defaultSearchLimit  = 50
)

// groupsForLocationHandler returns the stop groups within radius meters of
// lat/lon, nearest first.
func (api *RestAPI) groupsForLocationHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	fieldErrors := make(map[string][]string)
	for _, key := range []string{"lat", "lon"} {
		if !query.Has(key) {
			fieldErrors[key] = append(fieldErrors[key], key+" is required")
		}
	}

	lat, fieldErrors := utils.ParseFloatParam(query, "lat", fieldErrors)
	lon, fieldErrors := utils.ParseFloatParam(query, "lon", fieldErrors)
	radius, fieldErrors := utils.ParseFloatParam(query, "radius", fieldErrors)
	limit, fieldErrors := utils.ParseIntParam(query, "limit", fieldErrors)

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	if !query.Has("radius") {
		radius = defaultSearchRadius
	}
	if !query.Has("limit") || limit == 0 {
		limit = defaultSearchLimit
	}

	if locationErrors := utils.ValidateLocationParams(lat, lon, radius, limit); len(locationErrors) > 0 {
		api.validationErrorResponse(w, r, locationErrors)
		return
	}

	// one extra result tells us whether the limit cut anything off
	groups := api.Catalog.StopGroupsNear(lat, lon, radius, limit+1)
	limitExceeded := len(groups) > limit
	if limitExceeded {
		groups = groups[:limit]
	}

	api.sendResponse(w, r, models.NewListResponse(groups, limitExceeded))
}
