// Command cleanup removes expired sessions and audit events past the
// retention window. Intended to run from cron.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/config"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/session"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/store/postgres"
)

const defaultAuditRetentionDays = 90

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	sessionService := session.NewService(postgres.NewSessionRepository(db), cfg.Session.Lifetime, cfg.Session.IdleTimeout)
	sessions, err := sessionService.CleanupExpired(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to cleanup sessions: %v\n", err)
		os.Exit(1)
	}

	retentionDays := defaultAuditRetentionDays
	if raw := os.Getenv("AUDIT_RETENTION_DAYS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			retentionDays = n
		}
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	events, err := postgres.NewAuditRepository(db).DeleteOlderThan(ctx, cutoff)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to cleanup audit events: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("removed %d expired sessions and %d audit events older than %d days\n", sessions, events, retentionDays)
}
