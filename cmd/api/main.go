package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wlmonitor.org/internal/app"
	"wlmonitor.org/internal/appconf"
	"wlmonitor.org/internal/logging"
	"wlmonitor.org/internal/restapi"
)

// cliFlags are the command-line settings. Everything else comes from the
// YAML config file; non-zero flags override it.
type cliFlags struct {
	configPath string
	port       int
	env        string
	logLevel   string
}

func parseFlags(args []string, output io.Writer) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.configPath, "config", "", "Path to a YAML config file")
	fs.IntVar(&f.port, "port", 0, "API server port (overrides the config file)")
	fs.StringVar(&f.env, "env", "", "Environment (development|test|production)")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}
	return f, nil
}

func loadConfig(f cliFlags) (appconf.Config, error) {
	cfg, err := appconf.Load(f.configPath)
	if err != nil {
		return appconf.Config{}, err
	}

	if f.port != 0 {
		cfg.Server.Port = f.port
	}
	if f.env != "" {
		cfg.Env = appconf.EnvFlagToEnvironment(f.env)
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return appconf.Config{}, err
	}
	return cfg, nil
}

func newServer(cfg appconf.Config, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

// run serves the API until ctx is cancelled or the listener fails, then
// shuts the server, the monitor streams and the poller down in that order.
func run(ctx context.Context, cfg appconf.Config, logger *slog.Logger) error {
	application, err := app.New(cfg, logger)
	if err != nil {
		return logging.ReplaceLogFatal(logger, "failed to initialize application", err)
	}
	application.Start()

	api := restapi.NewRestAPI(application)
	srv := newServer(cfg, api.Handler(), logger)

	serveErr := make(chan error, 1)
	go func() {
		logging.LogOperation(logger, "starting_server",
			slog.String("addr", srv.Addr),
			slog.String("env", string(cfg.Env)))
		serveErr <- srv.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = logging.ReplaceLogFatal(logger, "server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logging.LogOperation(logger, "shutdown_requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	api.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.LogError(logger, "server shutdown failed", err)
	}
	application.Shutdown()

	return runErr
}

func main() {
	f, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// loadConfig has already validated the level
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.NewStructuredLogger(os.Stdout, level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		stop()
		os.Exit(1)
	}
}
