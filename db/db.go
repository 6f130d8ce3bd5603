// Package db provides database connectivity and migration support. It owns
// the two pgx connection pools (request path and audit log writer), enables
// the extensions the schema depends on, and applies SQL migrations.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // driver for database/sql, used by migrate's postgres driver
	"github.com/sirupsen/logrus"

	"github.com/user/tutoria-go/apperror"
	"github.com/user/tutoria-go/config"
)

// NewDBPools establishes the two PostgreSQL connection pools: the app pool
// for request-path queries and a small log pool reserved for the audit log
// writer. Keeping the writer on its own pool means a burst of log inserts
// can never exhaust the connections user-facing handlers acquire from.
func NewDBPools(cfg *config.DatabasePools) (*pgxpool.Pool, *pgxpool.Pool, error) {
	appPool, err := createPgxPool(cfg.AppPool)
	if err != nil {
		return nil, nil, apperror.NewDatabaseError("failed to create application pool", err)
	}

	logPool, err := createPgxPool(cfg.LogPool)
	if err != nil {
		appPool.Close()
		return nil, nil, apperror.NewDatabaseError("failed to create audit log pool", err)
	}

	return appPool, logPool, nil
}

// createPgxPool establishes a single pgxpool connection pool and verifies it
// with a ping before handing it out.
func createPgxPool(cfg *config.PoolConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error parsing DSN for database %s", cfg.DBName), err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", cfg.DBName), err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to database %s", cfg.DBName), err)
	}

	return pool, nil
}

// EnableExtensions enables the PostgreSQL extensions the schema relies on.
// citext backs the case-insensitive uniqueness of user emails.
func EnableExtensions(pool *pgxpool.Pool) error {
	extensions := []string{"citext"}

	for _, ext := range extensions {
		query := fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %s;", ext)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := pool.Exec(ctx, query)
		cancel()
		if err != nil {
			return apperror.NewDatabaseError(fmt.Sprintf("failed to create extension %s", ext), err)
		}
	}

	return nil
}

// getDSN constructs a lib/pq style DSN from PoolConfig for golang-migrate.
func getDSN(cfg *config.PoolConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)
}

// RunMigrations applies any pending migrations from the given directory.
// migrate.ErrNoChange is not an error: it just means the schema is current.
func RunMigrations(cfg *config.PoolConfig, migrationsPath string, logger *logrus.Logger) error {
	m, err := migrate.New("file://"+migrationsPath, getDSN(cfg))
	if err != nil {
		return apperror.NewDatabaseError("failed to create migrator", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			if srcErr != nil {
				logger.Warnf("error closing migration source: %v", srcErr)
			}
			if dbErr != nil {
				logger.Warnf("error closing migration database instance: %v", dbErr)
			}
		}
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return apperror.NewDatabaseError("failed to run migrations", err)
	}

	return nil
}
