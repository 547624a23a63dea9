package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Net-Advantage/ai-showcase/rental/internal/config"
	"github.com/Net-Advantage/ai-showcase/rental/internal/logger"
	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

// MemoryPath opens a private in-memory SQLite database.
const MemoryPath = ":memory:"

// slowQueryThreshold is the duration above which GORM logs a query.
const slowQueryThreshold = 200 * time.Millisecond

// Database holds the record store connection.
// Gorm is always set once opened; Pool is only set for PostgreSQL.
type Database struct {
	Gorm   *gorm.DB
	Pool   *pgxpool.Pool
	Driver string
}

// Open connects to the record store selected by cfg.Store.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Database, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.Store.SQLitePath, log)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.Database, log)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// OpenSQLite opens an embedded SQLite store at path.
// SQLite allows a single writer, so the pool is capped at one connection.
func OpenSQLite(ctx context.Context, path string, log *logger.Logger) (*Database, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	gdb, err := gorm.Open(sqlite.Open(path), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if path != MemoryPath {
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return &Database{Gorm: gdb, Driver: config.DriverSQLite}, nil
}

// OpenPostgres opens a pgx pool and layers GORM on top of it.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*Database, error) {
	db, err := NewPostgresPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig(log))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open gorm over postgres pool: %w", err)
	}

	db.Gorm = gdb
	return db, nil
}

// Migrate creates or updates the tables of the five record collections.
func (db *Database) Migrate(ctx context.Context) error {
	if db.Gorm == nil {
		return errors.New("database is not open")
	}
	if err := db.Gorm.WithContext(ctx).AutoMigrate(
		&models.Property{},
		&models.Workpaper{},
		&models.Evidence{},
		&models.Activity{},
		&models.SettingsOverride{},
	); err != nil {
		return fmt.Errorf("failed to migrate record store: %w", err)
	}
	return nil
}

// Ping checks if the database connection is alive.
// It returns an error if the connection is not available.
func (db *Database) Ping(ctx context.Context) error {
	if db.Gorm != nil {
		sqlDB, err := db.Gorm.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		return sqlDB.PingContext(ctx)
	}
	if db.Pool != nil {
		return db.Pool.Ping(ctx)
	}
	return errors.New("database is not open")
}

// Close gracefully closes the store connections.
// It is safe to call more than once.
func (db *Database) Close() {
	if db.Gorm != nil {
		if sqlDB, err := db.Gorm.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
}

func gormConfig(log *logger.Logger) *gorm.Config {
	gl := gormlogger.Discard
	if log != nil {
		gl = gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}
	return &gorm.Config{
		Logger: gl,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}
