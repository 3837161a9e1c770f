package app

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/pick-ledger/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

const (
	dbPingTimeout        = 5 * time.Second
	maxTracedQueryLength = 512
)

var (
	dbSystemAttr         = attribute.String("db.system", "postgresql")
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
)

// openDB opens a traced postgres pool and checks it is reachable.
func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := PostgresDSN(cfg)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(dbSystemAttr),
		otelsql.WithDBName(dbName(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithAttributes(dbSystemAttr))
	return db, nil
}

// formatDBQueryForTrace collapses whitespace and caps the length of traced statements.
func formatDBQueryForTrace(query string) string {
	normalized := queryWhitespaceRegex.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}

const preparedBinaryParam = "disable_prepared_binary_result"

// PostgresDSN is the connection string used by both the service and the migrator.
// URL-style DSNs get disable_prepared_binary_result=yes unless the flag is off or
// the parameter is already present.
func PostgresDSN(cfg config.Config) string {
	dsn := strings.TrimSpace(cfg.DBURL)
	if !cfg.DBDisablePreparedBinary {
		return dsn
	}

	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return dsn
	}
	q := u.Query()
	if q.Has(preparedBinaryParam) {
		return dsn
	}
	q.Set(preparedBinaryParam, "yes")
	u.RawQuery = q.Encode()
	return u.String()
}

// dbName extracts the database name from a URL or a key=value DSN.
func dbName(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
		return strings.Trim(u.Path, "/ ")
	}
	for _, field := range strings.Fields(dsn) {
		if name, ok := strings.CutPrefix(field, "dbname="); ok {
			return strings.Trim(name, `"' `)
		}
	}
	return ""
}
