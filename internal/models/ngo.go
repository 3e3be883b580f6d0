package models

import (
	"time"

	"gorm.io/datatypes"
)

// Ngo is the local mirror of an organization account held by the municipal
// identity service. It is written only by the login flow; everything else
// treats it as read-only reference data.
type Ngo struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	Email     string         `gorm:"type:varchar(254);not null;uniqueIndex" json:"email"`
	LogoURL   string         `gorm:"type:text" json:"logoUrl,omitempty"`
	Raw       datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
}
