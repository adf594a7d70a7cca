// Package migrator applies the goose migrations of each bounded context.
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/wono/hostpanel/pkg/logger"
)

// Set is one bounded context's migrations.
type Set struct {
	Service string
	FS      fs.FS
}

// Up applies pending migrations for every set, in order. Each service keeps its
// own version table so contexts can be migrated independently.
func Up(ctx context.Context, dbURL string, log logger.Logger, sets ...Set) error {
	return each(ctx, dbURL, sets, func(db *sql.DB, s Set) error {
		if err := goose.UpContext(ctx, db, "."); err != nil {
			return fmt.Errorf("up %s migrations: %w", s.Service, err)
		}
		version, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("read %s version: %w", s.Service, err)
		}
		log.InfoContext(ctx, "migrations applied", "service", s.Service, "version", version)
		return nil
	})
}

// Status prints the applied and pending migrations of every set.
func Status(ctx context.Context, dbURL string, sets ...Set) error {
	return each(ctx, dbURL, sets, func(db *sql.DB, s Set) error {
		if err := goose.StatusContext(ctx, db, "."); err != nil {
			return fmt.Errorf("%s status: %w", s.Service, err)
		}
		return nil
	})
}

// goose keeps its base FS and table name globally, so sets run one at a time.
func each(ctx context.Context, dbURL string, sets []Set, fn func(*sql.DB, Set) error) error {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	defer goose.SetBaseFS(nil)

	for _, s := range sets {
		goose.SetBaseFS(s.FS)
		goose.SetTableName(VersionTable(s.Service))
		if err := fn(db, s); err != nil {
			return err
		}
	}
	return nil
}

// VersionTable returns the goose bookkeeping table for service.
func VersionTable(service string) string {
	return service + "_goose_db_version"
}
