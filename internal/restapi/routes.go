package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

// validateAPIKey guards the endpoints that change the watch-set.
func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/api/health", api.healthHandler)

	router.HandlerFunc(http.MethodGet, "/api/lines", api.linesHandler)
	router.HandlerFunc(http.MethodGet, "/api/lines/:id", api.lineHandler)
	router.HandlerFunc(http.MethodGet, "/api/stops/:id", api.stopHandler)

	router.HandlerFunc(http.MethodGet, "/api/groups", api.stopGroupsHandler)
	router.HandlerFunc(http.MethodGet, "/api/groups/:diva", api.stopGroupHandler)
	router.HandlerFunc(http.MethodGet, "/api/groups/:diva/stops", api.stopsForGroupHandler)
	router.HandlerFunc(http.MethodGet, "/api/groups/:diva/lines", api.linesForGroupHandler)
	router.HandlerFunc(http.MethodGet, "/api/groups-for-location", api.groupsForLocationHandler)

	router.HandlerFunc(http.MethodGet, "/api/monitor", api.monitorHandler)
	router.HandlerFunc(http.MethodGet, "/api/monitor/stream", api.monitorStreamHandler)

	router.HandlerFunc(http.MethodGet, "/api/watch", api.watchListHandler)
	router.Handler(http.MethodPut, "/api/watch/:diva", validateAPIKey(api, api.watchHandler))
	router.Handler(http.MethodDelete, "/api/watch/:diva", validateAPIKey(api, api.unwatchHandler))

	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.MethodNotAllowed = http.HandlerFunc(api.methodNotAllowedResponse)
	// CORS preflights are answered by corsMiddleware
	router.HandleOPTIONS = false
}

// Handler returns the routed API wrapped in its middleware chain, outermost
// first: recovery, request logging, CORS, rate limiting, compression and
// security headers.
func (api *RestAPI) Handler() http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)

	var handler http.Handler = router
	handler = securityHeaders(handler)
	handler = CompressionMiddleware(handler)
	handler = api.rateLimiter.Handler(handler)
	handler = api.corsMiddleware(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = api.recoveryMiddleware(handler)
	return handler
}
