package database

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/portfolio/internal/config"
	"github.com/mrlokans/portfolio/internal/entities"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Database struct {
	DB     *gorm.DB
	driver string
}

// NewDatabase connects with the configured driver and migrates the schema.
func NewDatabase(cfg config.Database, log *zap.Logger) (*Database, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var dialector gorm.Dialector
	driver := strings.ToLower(cfg.Driver)
	switch driver {
	case DriverSQLite, "":
		driver = DriverSQLite
		dialector = sqlite.Open(cfg.Path)
	case DriverPostgres, "postgresql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for the postgres driver")
		}
		driver = DriverPostgres
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db, driver: driver}
	if err := database.Migrate(); err != nil {
		return nil, err
	}

	log.Info("database initialized", zap.String("driver", driver))
	return database, nil
}

// Migrate creates or updates every table the application owns.
func (d *Database) Migrate() error {
	err := d.DB.AutoMigrate(
		&entities.Project{},
		&entities.ImportJob{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Driver() string {
	return d.driver
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
