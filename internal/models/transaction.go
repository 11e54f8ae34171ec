package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TxIncome  = "INCOME"
	TxExpense = "EXPENSE"
)

type Transaction struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	StudioID string `gorm:"type:uuid;index" json:"studio_id"`

	Type   string          `gorm:"size:10;not null" json:"type"`
	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`

	// Null implies studio-attributed (flat service or expense).
	ArtistID *string `gorm:"type:uuid;index" json:"artist_id"`

	Category    string    `gorm:"size:50" json:"category"`
	Date        time.Time `gorm:"index" json:"date"`
	Description string    `gorm:"size:255" json:"description"`

	AppointmentID *string `gorm:"type:uuid" json:"appointment_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
