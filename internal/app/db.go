package app

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/openfairway/niner-league/internal/config"
)

const (
	dbPingTimeout  = 5 * time.Second
	dbMaxOpenConns = 10
	dbMaxIdleConns = 5
	dbConnMaxIdle  = 5 * time.Minute
	dbConnMaxLife  = 30 * time.Minute
)

// openDB connects to Postgres with OpenTelemetry instrumentation so every
// query shows up as a span under the request trace.
func openDB(cfg config.Config) (*sqlx.DB, string, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(dsn); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Open("postgres", dsn, opts...)
	if err != nil {
		return nil, "", errors.Wrap(err, "open postgres")
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxIdleTime(dbConnMaxIdle)
	db.SetConnMaxLifetime(dbConnMaxLife)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", errors.Wrap(err, "ping postgres")
	}

	return db, dsn, nil
}
