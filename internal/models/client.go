package models

import "time"

// Client has no login; it belongs to a studio.
// The placeholder client anchors appointments imported from an external
// calendar when the event carries no CRM-native client identity.
type Client struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	StudioID string `gorm:"type:uuid;index" json:"studio_id"`

	FullName string `gorm:"size:100;not null" json:"full_name"`
	Phone    string `gorm:"size:20" json:"phone"`
	Email    string `gorm:"size:100" json:"email"`
	Notes    string `gorm:"type:text" json:"notes"`

	IsPlaceholder bool `gorm:"default:false;index" json:"is_placeholder"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const PlaceholderClientName = "Cliente Esterno (Import Calendario)"
