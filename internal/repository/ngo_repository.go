package repository

import (
	"context"
	"errors"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"

	"gorm.io/gorm"
)

type NgoRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Ngo, error)
	GetByEmail(ctx context.Context, email string) (*models.Ngo, error)
	Upsert(ctx context.Context, ngo *models.Ngo) error
}

type ngoRepository struct {
	db *gorm.DB
}

func NewNgoRepository(db *gorm.DB) NgoRepository {
	return &ngoRepository{db: db}
}

func (r *ngoRepository) GetByID(ctx context.Context, id uint) (*models.Ngo, error) {
	var ngo models.Ngo
	err := r.db.WithContext(ctx).First(&ngo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ngo, nil
}

func (r *ngoRepository) GetByEmail(ctx context.Context, email string) (*models.Ngo, error) {
	var ngo models.Ngo
	err := r.db.WithContext(ctx).First(&ngo, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &ngo, nil
}

// Upsert creates or refreshes the mirror record keyed by contact email,
// which is the join key with the external identity service.
func (r *ngoRepository) Upsert(ctx context.Context, ngo *models.Ngo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Ngo
		err := tx.Where("email = ?", ngo.Email).First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(ngo).Error
		}
		if err != nil {
			return err
		}

		ngo.ID = existing.ID
		ngo.CreatedAt = existing.CreatedAt
		return tx.Save(ngo).Error
	})
}
