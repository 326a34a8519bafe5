// Package main starts the shelter API stub: the REST API the console talks
// to, backed by memory or PostgreSQL, for local development and tests.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/atinyakov/ShelterDesk/internal/config"
	"github.com/atinyakov/ShelterDesk/internal/db"
	"github.com/atinyakov/ShelterDesk/internal/logger"
	"github.com/atinyakov/ShelterDesk/internal/repository"
	"github.com/atinyakov/ShelterDesk/internal/server/handler/http"
	"github.com/atinyakov/ShelterDesk/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	flags := config.Register(pflag.CommandLine)
	pflag.Parse()
	options, err := flags.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	if err := log.Init(cmp.Or(options.LogLevel, "info")); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	zapLogger := log.Log
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, users, closeStore, err := openStore(ctx, options.DatabaseDSN, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot init storage", zap.Error(err))
	}
	defer closeStore()

	shelter := service.NewShelterService(store, zapLogger)
	auth := service.NewAuthService(users, options.AdminUser, options.AdminPassword, zapLogger)
	router := http.NewRouter(shelter, &http.AuthHandler{AuthService: auth}, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	tlsOn := options.CertFile != "" && options.KeyFile != ""
	if tlsOn {
		if server.TLSConfig, err = tlsConfig(options.CAFile); err != nil {
			zapLogger.Fatal("failed to configure TLS", zap.Error(err))
		}
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting API stub", zap.String("addr", options.Address), zap.Bool("tls", tlsOn))
		if tlsOn {
			errCh <- server.ListenAndServeTLS(options.CertFile, options.KeyFile)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

// openStore connects to PostgreSQL when dsn is set and falls back to an
// in-memory store otherwise.
func openStore(ctx context.Context, dsn string, log *zap.Logger) (service.Store, service.UserRepository, func(), error) {
	if dsn == "" {
		log.Info("using in-memory storage")
		m := repository.NewMemory()
		return service.MemoryStore(m), m, func() {}, nil
	}

	conn, err := db.InitPostgres(ctx, dsn)
	if err != nil {
		return service.Store{}, nil, nil, err
	}
	p := repository.NewPostgres(conn)
	return service.PostgresStore(p), p, func() { closeDB(conn, log) }, nil
}

func closeDB(conn *sql.DB, log *zap.Logger) {
	if err := conn.Close(); err != nil {
		log.Warn("closing database", zap.Error(err))
	}
}

// tlsConfig verifies client certificates against caFile when one is given.
func tlsConfig(caFile string) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if caFile == "" {
		return cfg, nil
	}
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("read CA cert: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, errors.New("failed to append CA cert to pool")
	}
	cfg.ClientCAs = pool
	cfg.ClientAuth = tls.VerifyClientCertIfGiven
	return cfg, nil
}
