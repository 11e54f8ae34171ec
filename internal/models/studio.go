package models

import "time"

type Studio struct {
	ID   string `gorm:"type:uuid;primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`

	Phone    string `gorm:"size:20" json:"phone"`
	Address  string `gorm:"size:255" json:"address"`
	Timezone string `gorm:"size:64;default:'Europe/Rome'" json:"timezone"`

	AcademyTermsVersion int `gorm:"default:1" json:"academy_terms_version"`

	// Google Sheets import config (consumed by the clients import flow).
	SheetsSpreadsheetID string `gorm:"size:100" json:"sheets_spreadsheet_id"`
	SheetsSheetName     string `gorm:"size:100" json:"sheets_sheet_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
