package infra

import (
	"github.com/omfen/fenntech-internal-system-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for all tables. Decimal columns carry explicit precision tags
// on the models so migration produces exact numeric types.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.ExchangeRate{},
		&model.InvoiceSession{},
		&model.InvoiceLineItem{},
		&model.MarketplaceSession{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
