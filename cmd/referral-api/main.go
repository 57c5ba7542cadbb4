// Command referral-api serves per-user referral debt figures over HTTP,
// guarded by an IP allowlist.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/abczzz13/referral-balance-api/internal/config"
	"github.com/abczzz13/referral-balance-api/internal/ipallow"
	ipallowprom "github.com/abczzz13/referral-balance-api/internal/ipallow/prometheus"
	"github.com/abczzz13/referral-balance-api/internal/referral"
	"github.com/abczzz13/referral-balance-api/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env file for local development; the environment wins.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	rules := ipallow.ParseList(cfg.AllowedIPs)
	for _, bad := range rules.Invalid() {
		logger.Warn("skipping malformed allow rule", "rule", bad.Raw, "error", bad.Err)
	}
	if rules.Active() {
		logger.Info("IP allowlist active", "rules", rules.Len())
	} else {
		logger.Warn("IP allowlist not configured, access is open to all")
	}

	filter, err := ipallow.New(
		ipallow.WithRules(rules),
		ipallow.WithLogger(logger),
		ipallowprom.WithMetrics(),
	)
	if err != nil {
		return fmt.Errorf("build IP filter: %w", err)
	}

	ctx := context.Background()

	pool, err := referral.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connection pool created",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
		"min_conns", cfg.Database.MinConns,
		"max_conns", cfg.Database.MaxConns,
	)

	store := referral.NewStore(pool)

	return server.New(cfg, filter, store).Start(ctx)
}
