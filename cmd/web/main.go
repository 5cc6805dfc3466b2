package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/go-playground/form"
	_ "github.com/go-sql-driver/mysql"
	"github.com/kayden-vs/katasweets/internal/config"
	"github.com/kayden-vs/katasweets/internal/gateway"
	"github.com/kayden-vs/katasweets/internal/logger"
	"github.com/kayden-vs/katasweets/internal/notify"
	"github.com/kayden-vs/katasweets/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

type application struct {
	logger         zerolog.Logger
	formDecoder    *form.Decoder
	sessionManager *scs.SessionManager
	sessions       *session.Store
	flash          *notify.Flash
	api            *gateway.Client
	registry       *prometheus.Registry
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.Web.Addr, "HTTP server address")
	apiURL := flag.String("api", cfg.Web.APIBaseURL, "Base URL of the sweets API")
	dsn := flag.String("session-dsn", cfg.Web.SessionDSN, "MySQL data source name for sessions (memory when empty)")
	tlsCert := flag.String("tls-cert", "", "TLS certificate file")
	tlsKey := flag.String("tls-key", "", "TLS key file")
	flag.Parse()

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	useTLS := *tlsCert != "" && *tlsKey != ""
	if !useTLS {
		log.Warn().Msg("No TLS certificate configured; serving plain HTTP with non-secure cookies")
	}

	sessionManager := newSessionManager(cfg.Web.SessionLifetime, useTLS)

	if *dsn != "" {
		db, err := openDB(*dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open session database")
		}
		defer db.Close()
		sessionManager.Store = mysqlstore.New(db)
	} else {
		sessionManager.Store = memstore.New()
	}

	app := newApplication(log, sessionManager, *apiURL, cfg.Web.RequestTimeout)

	srv := &http.Server{
		Addr:         *addr,
		ErrorLog:     stdlog.New(log, "", 0),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Web.RequestTimeout + 10*time.Second,
	}

	go func() {
		log.Info().Str("addr", *addr).Str("api", *apiURL).Msg("Starting storefront")
		var err error
		if useTLS {
			err = srv.ListenAndServeTLS(*tlsCert, *tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Storefront server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down storefront")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// newSessionManager marks the session cookie Secure only when the storefront
// is served over TLS. The CSRF cookie follows the same setting.
func newSessionManager(lifetime time.Duration, secure bool) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Lifetime = lifetime
	sessionManager.Cookie.Secure = secure
	return sessionManager
}

// newApplication wires the session store, notices and backend client around
// an already configured session manager.
func newApplication(log zerolog.Logger, sessionManager *scs.SessionManager, apiURL string, timeout time.Duration) *application {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sessions := session.NewStore(sessionManager)
	flash := notify.NewFlash(sessionManager, log)

	api := gateway.New(apiURL)
	api.HTTPClient.Timeout = timeout
	api.Tokens = sessions
	api.Notifier = flash
	api.Logger = log
	api.Metrics = gateway.NewMetrics(registry)

	return &application{
		logger:         log,
		formDecoder:    form.NewDecoder(),
		sessionManager: sessionManager,
		sessions:       sessions,
		flash:          flash,
		api:            api,
		registry:       registry,
	}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
