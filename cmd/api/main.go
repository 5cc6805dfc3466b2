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

	_ "github.com/go-sql-driver/mysql"
	"github.com/kayden-vs/katasweets/internal/auth"
	"github.com/kayden-vs/katasweets/internal/config"
	"github.com/kayden-vs/katasweets/internal/logger"
	"github.com/kayden-vs/katasweets/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.API.Addr, "HTTP server address")
	dsn := flag.String("dsn", cfg.API.DSN, "MySQL data source name")
	flag.Parse()

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	db, err := openDB(*dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	issuer, err := auth.NewIssuer(cfg.API.JWTSecret, cfg.API.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("SECRET_KEY must be set")
	}

	srv := newServer(serverDeps{
		logger:      log,
		users:       &models.UserModel{DB: db},
		categories:  &models.CategoryModel{DB: db},
		sweets:      &models.SweetModel{DB: db},
		tokens:      issuer,
		corsOrigins: cfg.API.CORSOrigins,
	})

	httpSrv := &http.Server{
		Addr:         *addr,
		Handler:      srv.router,
		ErrorLog:     stdlog.New(log, "", 0),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", *addr).Msg("Starting API server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("API server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down API server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
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
