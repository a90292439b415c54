package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"go-twocheckout/internal/common/enum"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// JSONB is a custom type for GORM to handle JSONB columns
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = JSONB("null")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
	case string:
		*j = JSONB(v)
	default:
		return errors.New("unsupported type for JSONB")
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("JSONB: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}

type Transaction struct {
	ID            string                     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Provider      string                     `json:"provider" gorm:"type:varchar(50);not null"`
	CartNumber    string                     `json:"cart_number" gorm:"type:varchar(100);uniqueIndex;not null"`
	AccountID     string                     `json:"account_id" gorm:"type:varchar(50)"`
	Amount        decimal.Decimal            `json:"amount" gorm:"type:numeric(18,2);not null"`
	CustomerName  string                     `json:"customer_name" gorm:"type:varchar(255)"`
	CustomerEmail string                     `json:"customer_email" gorm:"type:varchar(255)"`
	FormFields    JSONB                      `json:"form_fields" gorm:"type:json;not null"`
	ReturnURL     string                     `json:"return_url" gorm:"type:text"`
	TransactionID string                     `json:"transaction_id" gorm:"type:varchar(255);index"`
	Status        enum.TransactionStatusEnum `json:"status" gorm:"type:varchar(50);not null;default:'pending';index"`
	PaymentState  string                     `json:"payment_state" gorm:"type:varchar(50)"`
	CallbackKey   string                     `json:"callback_key" gorm:"type:varchar(64)"`
	ErrorMessage  string                     `json:"error_message" gorm:"type:text"`
	CreatedAt     time.Time                  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time                  `json:"updated_at" gorm:"autoUpdateTime"`
	AuthorizedAt  *time.Time                 `json:"authorized_at"`
}

func (Transaction) TableName() string {
	return "checkout_transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
