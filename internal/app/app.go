package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	server "ringside/server"
	"ringside/server/internal/game"
	servernet "ringside/server/internal/net"
	"ringside/server/logging"
	loggingSinks "ringside/server/logging/sinks"
)

type Config struct {
	Addr        string
	ClientDir   string
	TurnTimer   time.Duration
	LogLevel    string
	LogJSONPath string
	Rules       game.Config
}

// Run wires the hub, logging router, and HTTP surface together and serves
// until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	logCfg := logging.DefaultConfig()
	logCfg.MinimumSeverity = logging.ParseSeverity(cfg.LogLevel)

	named := []logging.NamedSink{
		{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout, logCfg.Console)},
	}
	if cfg.LogJSONPath != "" {
		file, err := os.OpenFile(cfg.LogJSONPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer file.Close()
		named = append(named, logging.NamedSink{Name: "json", Sink: loggingSinks.NewJSON(file, logCfg.JSON.FlushInterval)})
	}

	router, err := logging.NewRouter(nil, logCfg, named)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			log.Printf("failed to close logging router: %v", cerr)
		}
	}()

	hub := server.NewHub(server.Config{
		TurnTimer: cfg.TurnTimer,
		Rules:     cfg.Rules,
	}, router)

	stop := make(chan struct{})
	go hub.RunSweeper(stop)
	defer close(stop)

	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		ClientDir: cfg.ClientDir,
		Publisher: router,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
