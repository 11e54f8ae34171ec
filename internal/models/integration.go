package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// CalendarMapping maps artist id -> external calendar id, stored as JSON.
type CalendarMapping map[string]string

func (m CalendarMapping) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *CalendarMapping) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return errors.New("calendar_mapping: unsupported source type")
}

const ProviderGoogle = "google"

// UserIntegration holds the OAuth tokens of a connected calendar account
// plus the per-artist calendar mapping used by the sync.
type UserIntegration struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;uniqueIndex:ux_integration_user_provider;not null" json:"user_id"`
	User   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Provider string `gorm:"size:20;uniqueIndex:ux_integration_user_provider;not null" json:"provider"`

	AccessToken  string    `gorm:"size:2048" json:"-"`
	RefreshToken string    `gorm:"size:2048" json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`

	CalendarMapping CalendarMapping `gorm:"type:jsonb" json:"calendar_mapping"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenExpired reports whether the access token is expired or inside the
// refresh buffer.
func (i *UserIntegration) TokenExpired(now time.Time, buffer time.Duration) bool {
	return !now.Before(i.ExpiresAt.Add(-buffer))
}
