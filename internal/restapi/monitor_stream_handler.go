package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"wlmonitor.org/internal/logging"
	"wlmonitor.org/internal/realtime"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
	streamReadLimit  = 512
)

// monitorStreamHandler upgrades to a websocket and pushes every published
// monitor snapshot to the client, starting with the current one. A client
// that falls behind only receives the most recent snapshot.
func (api *RestAPI) monitorStreamHandler(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context()).With(slog.String("component", "monitor_stream"))

	conn, err := api.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client
		logging.LogError(logger, "websocket upgrade failed", err)
		return
	}
	defer logging.SafeCloseWithLogging(conn, logger, "websocket_connection")

	updates := make(chan *realtime.Response, 1)
	unsubscribe := api.Poller.Subscribe(func(resp *realtime.Response) {
		offerLatest(updates, resp)
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go readPump(conn, closed)

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-api.shutdown:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(streamWriteWait))
			return
		case <-closed:
			return
		case resp := <-updates:
			if err := writeSnapshot(conn, resp); err != nil {
				logger.Debug("monitor stream write failed", slog.String("error", err.Error()))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

// offerLatest puts resp into the single-slot channel, replacing a snapshot
// the writer has not picked up yet.
func offerLatest(ch chan *realtime.Response, resp *realtime.Response) {
	for {
		select {
		case ch <- resp:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// readPump discards client messages and closes done when the client goes
// away. Pongs extend the read deadline.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeSnapshot(conn *websocket.Conn, resp *realtime.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
