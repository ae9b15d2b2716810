package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Each payment holds one connection for the length of its posting
// transaction; lookups and history reads share the remainder, so the open
// cap stays above the idle floor to leave room for read bursts.
const (
	poolMaxIdle     = 20
	poolMaxOpen     = 30
	poolMaxIdleTime = 5 * time.Minute
	poolMaxLifetime = 15 * time.Minute
)

// Open dials the wallet database and verifies it answers before any
// repository is wired on top of it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db.SetMaxIdleConns(poolMaxIdle)
	db.SetMaxOpenConns(poolMaxOpen)
	db.SetConnMaxIdleTime(poolMaxIdleTime)
	db.SetConnMaxLifetime(poolMaxLifetime)

	return db, nil
}
