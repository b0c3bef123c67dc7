package monitor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Config for the monitoring server
type Config struct {
	Enabled   bool
	Host      string
	Port      int
	Profiling bool `mapstructure:"profiling"`
}

var srv *http.Server

// LoopProfilingServer serves the metrics and, when enabled, the pprof handlers.
// It blocks until the server is shut down.
func LoopProfilingServer(cfg Config) {
	if !cfg.Enabled {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if cfg.Profiling {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	srv = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: mux,
	}
	log.Info().Str("section", "monitor").Str("addr", srv.Addr).Msg("Starting monitoring server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Str("section", "monitor").Msg("Monitoring server stopped")
	}
}

// ShutdownServer stops the monitoring server if it was started
func ShutdownServer(timeout time.Duration) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Str("section", "monitor").Msg("Unable to shutdown monitoring server")
	}
}
