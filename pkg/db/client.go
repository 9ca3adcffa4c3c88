// Package db opens the relational store: Postgres in every deployed
// environment, SQLite for local runs and repository tests.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/tillpoint-backend/pkg/config"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

// Client owns the pooled gorm connection.
type Client struct {
	conn *gorm.DB
}

// New opens the database described by cfg and applies the pool settings.
// useSQLite switches to cfg.SQLitePath with foreign keys enforced.
func New(ctx context.Context, cfg config.DBConfig, useSQLite bool, logg *logger.Logger) (*Client, error) {
	dialector, err := dialectorFor(cfg, useSQLite)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 queryLogger(ctx, logg, cfg.SlowQuery),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", dialector.Name(), err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	configurePool(sqlDB, cfg, useSQLite)

	if logg != nil {
		logg.Info(logg.WithField(ctx, "driver", dialector.Name()), "db.connected")
	}
	return &Client{conn: conn}, nil
}

// FromConn wraps an already opened gorm handle.
func FromConn(conn *gorm.DB) *Client {
	return &Client{conn: conn}
}

func dialectorFor(cfg config.DBConfig, useSQLite bool) (gorm.Dialector, error) {
	if useSQLite {
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		return sqlite.Open(sqliteDSN(cfg.SQLitePath)), nil
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	return postgres.New(postgres.Config{DSN: cfg.DSN, PreferSimpleProtocol: true}), nil
}

// sqliteDSN turns on foreign key enforcement, which SQLite leaves off per
// connection, so redemption rows cascade with their voucher.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func configurePool(sqlDB *sql.DB, cfg config.DBConfig, useSQLite bool) {
	if useSQLite {
		// a single writer avoids "database is locked" on file databases
		cfg.MaxOpenConns = 1
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// queryLogger reports slow queries and driver errors through the service
// logger; gorm's own output is discarded otherwise.
func queryLogger(ctx context.Context, logg *logger.Logger, slow time.Duration) gormlogger.Interface {
	if logg == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(printfWriter{ctx: ctx, logg: logg}, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

type printfWriter struct {
	ctx  context.Context
	logg *logger.Logger
}

func (w printfWriter) Printf(format string, args ...any) {
	w.logg.Warn(w.ctx, "db.query: "+strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (c *Client) DB() *gorm.DB {
	return c.conn
}

// SQL returns the pooled database/sql handle goose runs on.
func (c *Client) SQL() (*sql.DB, error) {
	return c.conn.DB()
}

func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
