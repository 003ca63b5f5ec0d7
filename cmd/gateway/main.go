// Command gateway runs the limbo-gate anti-bot reverse-gateway: it
// listens for inbound game-client connections, admits or rejects them per
// the configured policy, and runs the fallback verification session for
// admitted clients.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ocx/limbo-gate/internal/admission"
	"github.com/ocx/limbo-gate/internal/api"
	"github.com/ocx/limbo-gate/internal/assets"
	"github.com/ocx/limbo-gate/internal/config"
	"github.com/ocx/limbo-gate/internal/gatewaysrv"
	"github.com/ocx/limbo-gate/internal/observability"
	"github.com/ocx/limbo-gate/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the gateway's YAML config file")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	snap, err := config.Load(*configPath)
	if err != nil {
		log.Error("loading config", "error", err)
		os.Exit(1)
	}

	persister, closeStore := buildPersister(*snap, log)
	if closeStore != nil {
		defer closeStore()
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewPrometheusSink(reg)
	feed := observability.NewFeed()
	sink := observability.MultiSink{Sinks: []observability.Sink{metrics, feed}}

	gate := admission.New(snap.Admission, sink, persister)
	assetBundle := assets.Prepare(snap.Assets)

	srv, err := gatewaysrv.New(snap.Listen, gate, assetBundle, snap.Session, sink, log)
	if err != nil {
		log.Error("binding listener", "addr", snap.Listen, "error", err)
		os.Exit(1)
	}

	adminSrv := api.NewServer(gate, feed)
	go func() {
		log.Info("admin API listening", "addr", snap.AdminListen)
		if err := http.ListenAndServe(snap.AdminListen, adminSrv); err != nil {
			log.Error("admin API stopped", "error", err)
		}
	}()

	go func() {
		log.Info("gateway listening", "addr", snap.Listen)
		if err := srv.Run(); err != nil {
			log.Error("gateway listener stopped", "error", err)
		}
	}()

	waitForShutdown(log, srv)
}

func buildPersister(snap config.Snapshot, log *slog.Logger) (admission.Persister, func()) {
	switch snap.PersistenceBackend {
	case "postgres":
		pg, err := store.OpenPostgres(snap.PersistenceDSN)
		if err != nil {
			log.Error("opening postgres persister, falling back to memory", "error", err)
			return admission.NewMemoryPersister(), nil
		}
		return pg, func() { pg.Close() }
	case "redis":
		rds, err := store.OpenRedis(snap.PersistenceDSN, snap.Admission.VerifiedTTL)
		if err != nil {
			log.Error("opening redis persister, falling back to memory", "error", err)
			return admission.NewMemoryPersister(), nil
		}
		return rds, func() { rds.Close() }
	default:
		return admission.NewMemoryPersister(), nil
	}
}

func waitForShutdown(log *slog.Logger, srv *gatewaysrv.Server) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down")
	srv.Close()
}
