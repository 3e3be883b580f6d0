package models

import (
	"time"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/apperrors"
)

const (
	PurposeDonation   = "DOACAO"
	PurposeRelocation = "REALOCACAO"
)

const (
	StatusActive    = "ATIVA"
	StatusFinalized = "FINALIZADA"
)

const (
	UrgencyLow    = "BAIXA"
	UrgencyMedium = "MEDIA"
	UrgencyHigh   = "ALTA"
)

// RelocationWindowDays is how long a relocation stays open after creation.
const RelocationWindowDays = 60

type Item struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"type:varchar(100);not null" json:"title"`
	Description     string     `gorm:"type:text;not null" json:"description"`
	Category        string     `gorm:"type:varchar(50);not null" json:"category"`
	Quantity        int        `gorm:"not null;default:1" json:"quantity"`
	ImageURL        string     `gorm:"type:text;not null" json:"imageUrl"`
	ContactWhatsapp string     `gorm:"type:varchar(13);not null" json:"contactWhatsapp"`
	ContactEmail    string     `gorm:"type:varchar(254);not null" json:"contactEmail"`
	Purpose         string     `gorm:"type:varchar(20);not null;index:idx_items_purpose_status" json:"purpose"`
	Urgency         string     `gorm:"type:varchar(10)" json:"urgency,omitempty"`
	Status          string     `gorm:"type:varchar(20);not null;default:'ATIVA';index:idx_items_purpose_status" json:"status"`
	NeededBy        *time.Time `json:"neededBy,omitempty"`
	NgoID           uint       `gorm:"not null;index" json:"ngoId"`
	Ngo             *Ngo       `gorm:"foreignKey:NgoID" json:"ngo,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	FinalizedAt     *time.Time `json:"finalizedAt,omitempty"`
}

func (i *Item) IsFinalized() bool {
	return i.Status == StatusFinalized
}

// SetStatus applies the one-way lifecycle: ATIVA may become FINALIZADA,
// FINALIZADA never goes back. Requesting the current status again is a
// conflict, not a silent no-op. Both the manual PATCH path and the bulk
// expiration jobs go through here so FinalizedAt is stamped consistently.
func (i *Item) SetStatus(status string, now time.Time) error {
	switch status {
	case StatusActive:
		if i.Status == StatusActive {
			return apperrors.NewConflict("o item já está nesse status")
		}
		return apperrors.NewConflict("um item FINALIZADA não pode ser reativado")
	case StatusFinalized:
		if i.Status == StatusFinalized {
			return apperrors.NewConflict("o item só pode ser atualizado enquanto estiver ATIVA")
		}
		i.Status = StatusFinalized
		t := now.UTC()
		i.FinalizedAt = &t
		return nil
	default:
		return apperrors.NewValidation("status", "status deve ser ATIVA ou FINALIZADA")
	}
}

// Finalize is the transition the expiration jobs use.
func (i *Item) Finalize(now time.Time) error {
	return i.SetStatus(StatusFinalized, now)
}
