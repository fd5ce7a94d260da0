package restapi

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchListHandler(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/watch")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	list, _ := listOf(t, model)
	assert.Equal(t, []interface{}{float64(karlsplatzDiva)}, list)
}

func TestWatchHandler(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPut, "/api/watch/60200627?key="+testAPIKey)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	list, _ := listOf(t, model)
	assert.Equal(t, []interface{}{float64(karlsplatzDiva), float64(stephansplatzDiva)}, list)
	assert.Equal(t, []int{karlsplatzDiva, stephansplatzDiva}, api.Poller.Watched())

	// watching twice changes nothing
	resp, _ = serveApiAndRetrieveEndpoint(t, api, http.MethodPut, "/api/watch/60200627?key="+testAPIKey)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []int{karlsplatzDiva, stephansplatzDiva}, api.Poller.Watched())
}

func TestWatchHandlerUnknownGroup(t *testing.T) {
	api := createTestApi(t)

	resp, _ := serveApiAndRetrieveEndpoint(t, api, http.MethodPut, "/api/watch/1?key="+testAPIKey)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, []int{karlsplatzDiva}, api.Poller.Watched())
}

func TestUnwatchHandler(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodDelete, "/api/watch/60200179?key="+testAPIKey)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	list, _ := listOf(t, model)
	assert.Empty(t, list)
	assert.Empty(t, api.Poller.Watched())

	// removing an absent key is a no-op
	resp, _ = serveApiAndRetrieveEndpoint(t, api, http.MethodDelete, "/api/watch/60200179?key="+testAPIKey)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWatchMutationsRequireAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		method string
		query  string
	}{
		{"put without key", http.MethodPut, ""},
		{"put with wrong key", http.MethodPut, "?key=nope"},
		{"delete without key", http.MethodDelete, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := createTestApi(t)
			resp, model := serveApiAndRetrieveEndpoint(t, api, tt.method, "/api/watch/60200627"+tt.query)

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "permission denied", model.Text)
			assert.Equal(t, []int{karlsplatzDiva}, api.Poller.Watched())
		})
	}
}

func TestWatchMutationsOpenWithoutConfiguredKeys(t *testing.T) {
	cfg := testConfig()
	cfg.Server.APIKeys = nil
	api := createTestApiWithConfig(t, cfg, &bytes.Buffer{})

	resp, _ := serveApiAndRetrieveEndpoint(t, api, http.MethodPut, "/api/watch/60201040")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []int{karlsplatzDiva, leopoldauDiva}, api.Poller.Watched())
}
