package app

import (
	"fmt"
	"log/slog"
	"net/http"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"wlmonitor.org/internal/appconf"
	"wlmonitor.org/internal/catalog"
	"wlmonitor.org/internal/loader"
	"wlmonitor.org/internal/logging"
	"wlmonitor.org/internal/models"
	"wlmonitor.org/internal/mqttsink"
	"wlmonitor.org/internal/realtime"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware: the configuration, a logger, the static catalog and the
// realtime poller. The catalog and the poller never talk to each other.
type Application struct {
	Config  appconf.Config
	Logger  *slog.Logger
	Catalog *catalog.Catalog
	Poller  *realtime.Poller

	mqttClient      mqtt.Client
	unsubscribeMQTT func()
}

// New loads the static snapshot named in cfg and prepares the poller. An
// MQTT broker that cannot be reached is logged and skipped.
func New(cfg appconf.Config, logger *slog.Logger) (*Application, error) {
	dataset, err := loader.ReadSnapshot(cfg.Static.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("loading static snapshot: %w", err)
	}

	client := &http.Client{Timeout: cfg.Realtime.RequestTimeout()}
	fetcher := realtime.NewHTTPFetcher(cfg.Realtime.BaseURL, client, logger)

	application := NewWithDependencies(cfg, logger, dataset, fetcher)

	if cfg.MQTT.Enabled() {
		mqttClient, err := mqttsink.Connect(cfg.MQTT, logger)
		if err != nil {
			logging.LogError(logger, "mqtt publishing disabled", err,
				slog.String("broker", cfg.MQTT.Broker))
		} else {
			application.attachSink(mqttClient)
		}
	}

	return application, nil
}

// NewWithDependencies builds an Application from an already loaded dataset
// and a monitor fetcher.
func NewWithDependencies(cfg appconf.Config, logger *slog.Logger, dataset models.Dataset, fetcher realtime.Fetcher) *Application {
	if logger == nil {
		logger = slog.Default()
	}

	poller := realtime.NewPoller(fetcher,
		realtime.WithLogger(logger),
		realtime.WithRequestTimeout(cfg.Realtime.RequestTimeout()))
	for _, diva := range cfg.Realtime.Watch {
		poller.Watch(diva)
	}

	cat := catalog.New(dataset)
	logging.LogOperation(logger, "static_catalog_loaded",
		slog.Int("lines", len(dataset.Lines)),
		slog.Int("stop_points", len(dataset.StopPoints)),
		slog.Int("stop_groups", len(dataset.StopGroups)))

	return &Application{
		Config:  cfg,
		Logger:  logger,
		Catalog: cat,
		Poller:  poller,
	}
}

func (app *Application) attachSink(client mqtt.Client) {
	sink := mqttsink.New(client,
		app.Config.MQTT.Topic,
		byte(app.Config.MQTT.QoS),
		app.Config.MQTT.Retained,
		app.Config.MQTT.PublishTimeout(),
		app.Logger)
	app.mqttClient = client
	app.unsubscribeMQTT = app.Poller.Subscribe(sink.Publish)
}

// Start begins polling when the configuration asks for it.
func (app *Application) Start() {
	if !app.Config.Realtime.AutoStart {
		logging.LogOperation(app.Logger, "realtime_autostart_disabled")
		return
	}
	app.Poller.StartPolling(app.Config.Realtime.PollInterval())
}

// Shutdown stops polling, waits for running cycles and disconnects from the
// MQTT broker.
func (app *Application) Shutdown() {
	app.Poller.Close()

	if app.unsubscribeMQTT != nil {
		app.unsubscribeMQTT()
	}
	if app.mqttClient != nil {
		app.mqttClient.Disconnect(250)
	}
	logging.LogOperation(app.Logger, "application_shutdown_complete")
}
