package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecurringExpense struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	StudioID string `gorm:"type:uuid;index" json:"studio_id"`

	Name     string          `gorm:"size:100;not null" json:"name"`
	Amount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Category string          `gorm:"size:50" json:"category"`

	// 1-28 so the posting date exists in every month.
	DayOfMonth int `gorm:"not null" json:"day_of_month"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecurringExpensePosting is the idempotence ledger for monthly generation:
// at most one EXPENSE transaction per (recurring_expense_id, year, month).
type RecurringExpensePosting struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RecurringExpenseID string `gorm:"type:uuid;uniqueIndex:ux_recurring_posting;not null" json:"recurring_expense_id"`
	Year               int    `gorm:"uniqueIndex:ux_recurring_posting;not null" json:"year"`
	Month              int    `gorm:"uniqueIndex:ux_recurring_posting;not null" json:"month"`

	TransactionID string `gorm:"type:uuid" json:"transaction_id"`

	CreatedAt time.Time `json:"created_at"`
}
