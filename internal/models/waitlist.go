package models

import "time"

type WaitlistEntry struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	StudioID string `gorm:"type:uuid;index" json:"studio_id"`

	ClientID string  `gorm:"type:uuid;not null" json:"client_id"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client,omitempty"`

	PreferredArtistID *string `gorm:"type:uuid" json:"preferred_artist_id"`

	Notes  string `gorm:"size:255" json:"notes"`
	Status string `gorm:"size:20;default:'WAITING'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
