package checkout

import (
	"context"
	"errors"
	"go-twocheckout/internal/common/models"
	database "go-twocheckout/internal/pkg/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("transaction not found")

type IRepository interface {
	// Upsert stores a transaction keyed by its cart number. Re-posting a cart
	// replaces the form and resets the transaction to pending.
	Upsert(ctx context.Context, trx *models.Transaction) error
	FindByCartNumber(ctx context.Context, cartNumber string) (*models.Transaction, error)
	// FindByTransactionID returns the cart a gateway order number was settled on.
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, cartNumber string, updates map[string]any) error
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

func (r *Repository) Upsert(ctx context.Context, trx *models.Transaction) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"account_id",
			"amount",
			"customer_name",
			"customer_email",
			"form_fields",
			"return_url",
			"status",
			"transaction_id",
			"payment_state",
			"callback_key",
			"error_message",
			"authorized_at",
			"updated_at",
		}),
	}).Create(trx).Error
}

func (r *Repository) FindByCartNumber(ctx context.Context, cartNumber string) (*models.Transaction, error) {
	var trx models.Transaction
	err := r.db.WithContext(ctx).Where("cart_number = ?", cartNumber).First(&trx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

func (r *Repository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	if transactionID == "" {
		return nil, ErrNotFound
	}
	var trx models.Transaction
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&trx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, cartNumber string, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("cart_number = ?", cartNumber).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
