package realtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"wlmonitor.org/internal/logging"
)

// DefaultBaseURL is the public monitor endpoint.
const DefaultBaseURL = "https://www.wienerlinien.at/ogd_realtime/monitor"

// TrafficInfoCategories are requested on every fetch: long and short
// disruption notices, elevator and escalator outages and general information.
var TrafficInfoCategories = []string{
	"stoerunglang",
	"stoerungkurz",
	"aufzugsinfo",
	"fahrtreppeninfo",
	"information",
}

// Fetcher performs one monitor request for the given DIVAs and returns the
// raw response body.
type Fetcher interface {
	Fetch(ctx context.Context, divas []int) ([]byte, error)
}

type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPFetcher returns a fetcher for baseURL. A nil client means
// http.DefaultClient.
func NewHTTPFetcher(baseURL string, client *http.Client, logger *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPFetcher{
		baseURL: baseURL,
		client:  client,
		logger:  logger.With(slog.String("component", "monitor_fetcher")),
	}
}

// RequestURL builds the monitor query: the five traffic info categories
// followed by one diva parameter per key, in ascending order.
func RequestURL(baseURL string, divas []int) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse monitor url: %w", err)
	}

	sorted := append([]int(nil), divas...)
	sort.Ints(sorted)

	q := u.Query()
	for _, c := range TrafficInfoCategories {
		q.Add("activateTrafficInfo", c)
	}
	for _, d := range sorted {
		q.Add("diva", strconv.Itoa(d))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, divas []int) ([]byte, error) {
	requestURL, err := RequestURL(f.baseURL, divas)
	if err != nil {
		return nil, &TransportError{URL: f.baseURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &TransportError{URL: requestURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: requestURL, Err: err}
	}
	defer logging.SafeCloseWithLogging(resp.Body, f.logger, "http_response_body")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, URL: requestURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: requestURL, Err: err}
	}
	return body, nil
}
