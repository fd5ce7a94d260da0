package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinesHandler(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/lines")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.StatusOK, model.Code)
	assert.Equal(t, "OK", model.Text)

	list, exceeded := listOf(t, model)
	assert.False(t, exceeded)
	require.Len(t, list, 3)

	first := list[0].(map[string]interface{})
	assert.Equal(t, float64(301), first["id"])
	assert.Equal(t, "U1", first["name"])
	assert.Equal(t, true, first["realtime"])
	assert.Equal(t, "ptMetro", first["vehicle"])
}

func TestLineHandler(t *testing.T) {
	tests := []struct {
		name       string
		endpoint   string
		wantStatus int
		wantName   string
	}{
		{"known line", "/api/lines/302", http.StatusOK, "U2"},
		{"json suffix", "/api/lines/104.json", http.StatusOK, "62"},
		{"unknown line", "/api/lines/999", http.StatusNotFound, ""},
		{"non numeric id", "/api/lines/abc", http.StatusBadRequest, ""},
		{"negative id", "/api/lines/-1", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, model := serveAndRetrieveEndpoint(t, tt.endpoint)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantStatus, model.Code)
			if tt.wantName != "" {
				assert.Equal(t, tt.wantName, entryOf(t, model)["name"])
			}
		})
	}
}
