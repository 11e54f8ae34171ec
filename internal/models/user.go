package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	StudioID string `gorm:"type:uuid;index" json:"studio_id"`
	Studio   Studio `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	FullName     string `gorm:"size:100;not null" json:"full_name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'artist'" json:"role"`
	Active       bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rent types for artist contracts.
const (
	RentFixed      = "FIXED"
	RentPercentage = "PERCENTAGE"
	RentPresences  = "PRESENCES"
)

// ArtistContract governs how a transaction's amount splits between
// studio and artist. 1:1 with the artist user.
type ArtistContract struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	ArtistID string `gorm:"type:uuid;uniqueIndex;not null" json:"artist_id"`

	CommissionRate decimal.Decimal `gorm:"type:numeric(5,2);default:50" json:"commission_rate"`
	RentType       string          `gorm:"size:20;default:'PERCENTAGE'" json:"rent_type"`
	MonthlyRent    decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"monthly_rent"`

	PresencePackageLimit int `gorm:"default:0" json:"presence_package_limit"`
	UsedPresences        int `gorm:"default:0" json:"used_presences"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
