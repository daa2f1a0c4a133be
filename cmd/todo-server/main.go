// Command todo-server serves the todos REST API from a SQLite file, for
// local development of the todo client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/server"
	"github.com/Makepad-fr/tada/internal/store"
)

func main() {
	addr := flag.String("addr", getEnv("TADA_ADDR", ":8080"), "listen address")
	dbPath := flag.String("db", getEnv("TADA_DB", "./data/tada.db"), "SQLite database path")
	secret := flag.String("jwt-secret", os.Getenv("TADA_JWT_SECRET"), "require HS256 bearer tokens signed with this secret")
	issue := flag.Int("issue-token", 0, "print a 24h token for this user id and exit")
	logLevel := flag.String("log-level", getEnv("TADA_LOG_LEVEL", "info"), "log level")
	flag.Parse()

	logger, closer, err := logging.New(logging.Options{Level: *logLevel, Prefix: "todo-server"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	if *issue > 0 {
		if *secret == "" {
			logger.Fatal("-issue-token needs -jwt-secret")
		}
		token, err := auth.Sign(*issue, []byte(*secret), 24*time.Hour)
		if err != nil {
			logger.Fatal("sign token", "err", err)
		}
		fmt.Println(token)
		return
	}

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		logger.Fatal("create data directory", "err", err)
	}

	s, err := store.NewSQLiteStore(*dbPath)
	if err != nil {
		logger.Fatal("initialize store", "err", err)
	}
	defer s.Close()

	opts := []server.Option{server.WithLogger(logger)}
	if *secret != "" {
		opts = append(opts, server.WithJWTSecret([]byte(*secret)))
	}
	srv := &http.Server{
		Addr:              *addr,
		Handler:           server.New(s, opts...).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()

	logger.Info("listening", "addr", *addr, "db", *dbPath, "auth", *secret != "")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "err", err)
		return
	}
	logger.Info("stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
