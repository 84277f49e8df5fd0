package net

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"time"

	"ringside/server"
	"ringside/server/internal/net/ws"
	"ringside/server/logging"
)

type HTTPHandlerConfig struct {
	ClientDir string
	Logger    *log.Logger
	Publisher logging.Publisher
}

// NewHTTPHandler builds the full HTTP surface: health and stats endpoints,
// the websocket upgrade path, and an optional static client directory.
func NewHTTPHandler(hub *server.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/stats", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}

		stats := hub.StatsSnapshot()
		payload := struct {
			Status     string `json:"status"`
			ServerTime int64  `json:"serverTime"`
			server.Stats
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Stats:      stats,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	wsHandler := ws.NewHandler(hub, logger, cfg.Publisher)
	mux.HandleFunc("/ws", wsHandler.Handle)

	if cfg.ClientDir != "" {
		fs := nethttp.FileServer(nethttp.Dir(cfg.ClientDir))
		mux.Handle("/", fs)
	}

	return mux
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
