package restapi

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
)

func (api *RestAPI) corsMiddleware(next http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(api.Config.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.MaxAge(86400),
	)(next)
}

// recoveryLogger adapts slog to the Println logger gorilla/handlers expects.
type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("panic while serving request",
		slog.String("panic", fmt.Sprint(v...)),
		slog.String("component", "http_server"))
}

func (api *RestAPI) recoveryMiddleware(next http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: api.Logger}),
		handlers.PrintRecoveryStack(false),
	)(next)
}
