package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/league-auction/internal/config"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
	"github.com/riskibarqy/league-auction/internal/platform/migration"
)

const (
	maxTracedQueryLength = 512
	dbPingTimeout        = 5 * time.Second

	// lib/pq sends parameters inline instead of through an unnamed prepared
	// statement, which keeps transaction-mode poolers happy.
	poolerSafeParam = "binary_parameters"
)

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := poolerSafeDSN(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromDSN(dsn)),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithQueryFormatter(formatQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB)
	return db, nil
}

func runMigrations(cfg config.Config, logger *logging.Logger) error {
	dir, err := migration.ResolveDir(cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("resolve migrations dir: %w", err)
	}
	runner, err := migration.New(cfg.DBURL, dir)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer func() {
		if closeErr := runner.Close(); closeErr != nil {
			logger.Warn("close migration runner failed", "error", closeErr)
		}
	}()

	changed, err := runner.Up()
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("database migrations checked", "dir", dir, "changed", changed)
	return nil
}

// poolerSafeDSN turns on lib/pq binary parameters unless the DSN already
// sets them. Both URL and keyword/value DSNs are handled.
func poolerSafeDSN(raw string, enabled bool) string {
	raw = strings.TrimSpace(raw)
	if !enabled || raw == "" {
		return raw
	}

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		query := parsed.Query()
		if query.Has(poolerSafeParam) {
			return raw
		}
		query.Set(poolerSafeParam, "yes")
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	if _, ok := keywordValue(raw, poolerSafeParam); ok {
		return raw
	}
	return raw + " " + poolerSafeParam + "=yes"
}

func dbNameFromDSN(raw string) string {
	raw = strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}
	name, _ := keywordValue(raw, "dbname")
	return name
}

func keywordValue(dsn, key string) (string, bool) {
	for _, token := range strings.Fields(dsn) {
		k, v, found := strings.Cut(token, "=")
		if found && k == key {
			return strings.Trim(strings.TrimSpace(v), `"'`), true
		}
	}
	return "", false
}

// formatQueryForTrace collapses whitespace and caps the statement length
// recorded on db spans.
func formatQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
