package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"wlmonitor.org/internal/app"
	"wlmonitor.org/internal/appconf"
	"wlmonitor.org/internal/logging"
	"wlmonitor.org/internal/models"
)

const (
	karlsplatzDiva    = 60200179
	stephansplatzDiva = 60200627
	leopoldauDiva     = 60201040
	testAPIKey        = "TEST"
)

const monitorBody = `{"data":{"monitors":[{"locationStop":{"properties":{"name":"60200179","title":"Karlsplatz"}},
"lines":[{"name":"U1","towards":"Leopoldau","direction":"H","type":"ptMetro",
"departures":{"departure":[{"departureTime":{"timePlanned":"2024-05-01T12:00:00.000+0200","countdown":3}}]}}]}]}}`

// fakeFetcher answers every fetch with body.
type fakeFetcher struct {
	mu    sync.Mutex
	body  string
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ []int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return []byte(f.body), nil
}

func testDataset() models.Dataset {
	return models.Dataset{
		Lines: []models.Line{
			{ID: 301, Name: "U1", Realtime: true, Vehicle: models.VehicleMetro},
			{ID: 302, Name: "U2", Realtime: true, Vehicle: models.VehicleMetro},
			{ID: 104, Name: "62", Realtime: true, Vehicle: models.VehicleTramWLB},
		},
		StopPoints: []models.StopPoint{
			{ID: 4116, Diva: karlsplatzDiva, Name: "Karlsplatz", Municipality: "Wien", MunicipalityID: 90001,
				Longitude: 16.3699, Latitude: 48.2004, Lines: []int{301}},
			{ID: 4117, Diva: karlsplatzDiva, Name: "Karlsplatz", Municipality: "Wien", MunicipalityID: 90001,
				Longitude: 16.3701, Latitude: 48.2006, Lines: []int{301, 302}},
			{ID: 4118, Diva: karlsplatzDiva, Name: "Karlsplatz", Municipality: "Wien", MunicipalityID: 90001,
				Longitude: 16.3695, Latitude: 48.2001, Lines: []int{104}},
			{ID: 4201, Diva: stephansplatzDiva, Name: "Stephansplatz", Municipality: "Wien", MunicipalityID: 90001,
				Longitude: 16.3721, Latitude: 48.2085, Lines: []int{301}},
		},
		StopGroups: []models.StopGroup{
			{Diva: karlsplatzDiva, Name: "Karlsplatz", Municipality: "Wien", MunicipalityID: 90001,
				Longitude: 16.3699, Latitude: 48.2004, Stops: []int{4117, 4116, 4118}},
			{Diva: stephansplatzDiva, Name: "Stephansplatz", Municipality: "Wien", MunicipalityID: 90001,
				Longitude: 16.3721, Latitude: 48.2085, Stops: []int{4201}},
			{Diva: leopoldauDiva, Name: "Leopoldau", Municipality: "Wien", MunicipalityID: 90001,
				Longitude: 16.4518, Latitude: 48.2775, Stops: []int{}},
		},
	}
}

func testConfig() appconf.Config {
	cfg := appconf.Default()
	cfg.Env = appconf.Test
	cfg.Server.APIKeys = []string{testAPIKey}
	cfg.Realtime.AutoStart = false
	cfg.Realtime.Watch = []int{karlsplatzDiva}
	return cfg
}

// createTestApi creates a RestAPI over the test dataset with a fake monitor
// feed. Polling is not started.
func createTestApi(t *testing.T) *RestAPI {
	return createTestApiWithConfig(t, testConfig(), &bytes.Buffer{})
}

func createTestApiWithConfig(t *testing.T, cfg appconf.Config, logs *bytes.Buffer) *RestAPI {
	t.Helper()
	logger := logging.NewStructuredLogger(logs, slog.LevelDebug)
	application := app.NewWithDependencies(cfg, logger, testDataset(), &fakeFetcher{body: monitorBody})

	api := NewRestAPI(application)
	t.Cleanup(func() {
		api.Close()
		application.Shutdown()
	})
	return api
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodGet, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, method, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	req, err := http.NewRequest(method, server.URL+endpoint, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "data.entry should be an object")
	return entry
}

func listOf(t *testing.T, model models.ResponseModel) ([]interface{}, bool) {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	list, ok := data["list"].([]interface{})
	require.True(t, ok, "data.list should be an array")
	exceeded, _ := data["limitExceeded"].(bool)
	return list, exceeded
}
