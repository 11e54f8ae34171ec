package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ImageList stores an ordered list of reference image URLs as a JSON column.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *ImageList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("images: unsupported source type")
}

type Appointment struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	StudioID string `gorm:"type:uuid;index;uniqueIndex:ux_appointments_studio_event" json:"studio_id"`

	ClientID *string `gorm:"type:uuid" json:"client_id"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	ArtistID string `gorm:"type:uuid;index" json:"artist_id"`
	Artist   User   `gorm:"foreignKey:ArtistID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"artist"`

	ServiceName string    `gorm:"size:150" json:"service_name"`
	StartTime   time.Time `gorm:"index" json:"start_time"`
	EndTime     time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'PENDING'" json:"status"`

	Price   decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"price"`
	Deposit decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"deposit"`

	// Identifier assigned by the external calendar provider; the
	// idempotency key for reconciliation. Unique per studio when present.
	ExternalEventID *string `gorm:"size:255;uniqueIndex:ux_appointments_studio_event" json:"external_event_id"`

	Notes  string    `gorm:"type:text" json:"notes"`
	Images ImageList `gorm:"type:jsonb" json:"images"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
