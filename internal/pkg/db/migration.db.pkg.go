package database

import (
	"fmt"
	"go-twocheckout/internal/common/models"
	"go-twocheckout/internal/pkg/logger"
)

func (db *Database) RunMigrations() error {
	logger.Info.Println("Starting database migrations...")

	models := []interface{}{
		&models.Transaction{},
	}

	for _, model := range models {
		logger.Info.Printf("Migrating model: %T", model)
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	if db.Config.Driver == POSTGRES {
		if err := db.createIndexes(); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	logger.Info.Println("Database migrations completed successfully")
	return nil
}

func (db *Database) createIndexes() error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_checkout_transactions_created_at ON checkout_transactions(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_checkout_transactions_status_created_at ON checkout_transactions(status, created_at);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_checkout_transactions_transaction_id ON checkout_transactions(transaction_id) WHERE transaction_id <> '';`,
	}

	for _, query := range indexes {
		if err := db.Exec(query).Error; err != nil {
			logger.Error.Printf("Error creating index: %s, Error: %v", query, err)
			return err
		}
	}

	return nil
}
