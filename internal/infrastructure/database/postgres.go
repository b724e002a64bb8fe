package database

import (
	"fmt"

	"github.com/sangkips/bizmetrics-api/internal/config"
	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Report fetches run in parallel, one connection per record source
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to postgres",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
	)
	return db, nil
}

// Models lists every table the record repository reads
func Models() []interface{} {
	return []interface{}{
		// Sales ledger
		&entity.Sale{},
		&entity.SaleItem{},

		// Spend
		&entity.Purchase{},
		&entity.Expense{},

		// CRM
		&entity.Customer{},

		// Catalogue and production
		&entity.ProductVariant{},
		&entity.ManufacturingBatch{},

		// Recurring revenue and marketing
		&entity.Subscription{},
		&entity.Campaign{},
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed", zap.Int("tables", len(Models())))
	return nil
}
