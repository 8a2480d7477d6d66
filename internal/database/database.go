package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/megaplex/realestate/internal/logger"
	"github.com/megaplex/realestate/internal/models"
)

const (
	maxOpenConns      = 8         // Reduced for SQLite efficiency
	maxIdleConns      = 4         // Reduced proportionally
	connMaxLifetime   = 300       // 5 minutes
	busyTimeout       = 5000      // 5 seconds
	cacheSize         = 10000     // 10MB
	mmapSize          = 134217728 // 128MB
	walAutocheckpoint = 1000      // WAL auto-checkpoint pages
)

// IsPostgres reports whether url points at PostgreSQL rather than a SQLite file
func IsPostgres(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// Open connects to the content database, applies driver tuning and runs migrations.
// The caller owns the returned handle and must Close it on shutdown.
func Open(url string, zlog zerolog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.NewGormLogger(zlog),
	}

	var (
		db  *gorm.DB
		err error
	)
	if IsPostgres(url) {
		db, err = openPostgres(url, gormCfg)
	} else {
		db, err = gorm.Open(sqlite.Open(url), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return ready(db, url, zlog)
}

// ready tunes and migrates a freshly opened handle. On failure the handle is
// closed so a bad database never leaks its connection pool.
func ready(db *gorm.DB, url string, zlog zerolog.Logger) (*gorm.DB, error) {
	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if !IsPostgres(url) {
		applySQLitePragmas(db, zlog)
	}

	if err := models.AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	zlog.Info().Str("driver", db.Dialector.Name()).Msg("Database ready")

	return db, nil
}

// openPostgres goes through lib/pq so the DSN accepts both URL and key=value forms
func openPostgres(url string, gormCfg *gorm.Config) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}

	return gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		Conn:       sqlDB,
	}), gormCfg)
}

// applySQLitePragmas sets WAL mode and friends; WAL must come first
func applySQLitePragmas(db *gorm.DB, zlog zerolog.Logger) {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA wal_autocheckpoint=%d", walAutocheckpoint),
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		fmt.Sprintf("PRAGMA cache_size=-%d", cacheSize),
		"PRAGMA foreign_keys=1",
		"PRAGMA temp_store=2",
		fmt.Sprintf("PRAGMA mmap_size=%d", mmapSize),
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	var walMode string
	db.Raw("PRAGMA journal_mode").Scan(&walMode)
	zlog.Debug().Str("journal_mode", walMode).Msg("SQLite pragmas applied")
}

// Close releases the connection pool, flushing SQLite WAL writes
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
