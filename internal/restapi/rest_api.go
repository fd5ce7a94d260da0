package restapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wlmonitor.org/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
	upgrader    websocket.Upgrader

	// closed by Close to end open monitor streams
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	api := &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.Server.RateLimit, time.Second),
		shutdown:    make(chan struct{}),
	}
	api.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     api.checkOrigin,
	}
	return api
}

// Close ends all monitor streams and stops the rate limiter cleanup.
func (api *RestAPI) Close() {
	api.shutdownOnce.Do(func() {
		close(api.shutdown)
		api.rateLimiter.Stop()
	})
}

// checkOrigin allows websocket upgrades from the configured CORS origins, or
// from anywhere when none are configured.
func (api *RestAPI) checkOrigin(r *http.Request) bool {
	origins := api.Config.Server.AllowedOrigins
	if len(origins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
