package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/naveenspark/mbadmin/internal/config"
	"github.com/naveenspark/mbadmin/internal/controller"
	"github.com/naveenspark/mbadmin/internal/logging"
	"github.com/naveenspark/mbadmin/internal/notify"
	"github.com/naveenspark/mbadmin/internal/service"
	"github.com/naveenspark/mbadmin/internal/storage"
	"github.com/naveenspark/mbadmin/internal/store"
	"github.com/naveenspark/mbadmin/pkg/client"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	registry *prometheus.Registry
	kv       storage.Storage
	gateway  *client.Client
	creds    *service.CredentialStore
	session  *store.Session
	prefs    *store.Preferences
	auth     *controller.AuthController
	users    *controller.UserController

	closers []io.Closer
}

type wireOptions struct {
	// console sends logs to stderr instead of the log file.
	console bool
	// queue receives user-facing notifications; nil creates a silent one.
	queue *notify.Queue
}

// wire builds storage, gateway, services, stores and controllers from cfg
// and restores any persisted session.
func wire(cfg *config.Config, opts wireOptions) (*app, error) {
	log, logCloser, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: opts.console,
	})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	kv, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		a.Close() //nolint:errcheck
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.kv = kv
	a.closers = append(a.closers, kv)

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.creds = service.NewCredentialStore(kv)
	a.gateway = client.New(cfg.APIURL,
		client.WithTimeout(cfg.Timeout),
		client.WithCredentials(a.creds),
		client.WithLogger(log),
		client.WithMetrics(client.NewMetrics(a.registry)),
	)
	invalidated := a.gateway.SessionInvalidated()
	authSvc := service.NewAuthService(a.gateway, a.creds, invalidated, log)

	a.prefs = store.NewPreferences(kv, opts.queue, log)
	a.session = store.NewSession(authSvc, kv, invalidated, log)
	if err := a.session.HydrateFromStorage(); err != nil {
		log.Warn().Err(err).Msg("could not restore session")
	}

	queue := a.prefs.Notifier()
	a.auth = controller.NewAuthController(a.session, queue, log)
	a.users = controller.NewUserController(service.NewUserService(a.gateway), queue,
		controller.WithLogger(log))

	log.Debug().
		Str("api_url", cfg.APIURL).
		Str("storage", cfg.Storage.Backend).
		Str("config", cfg.File).
		Msg("wired")
	return a, nil
}

// Close releases storage and the log file, newest first.
func (a *app) Close() error {
	if a.session != nil {
		a.session.Close()
	}
	if a.prefs != nil {
		a.prefs.ClearNotifications()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// serveMetrics exposes the registry on addr until ctx is done. It returns the
// bound address so ":0" can be used.
func serveMetrics(ctx context.Context, addr string, reg prometheus.Gatherer, log zerolog.Logger) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx) //nolint:errcheck
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("metrics listening")
	return ln.Addr().String(), nil
}
