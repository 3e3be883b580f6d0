package repository

import (
	"context"
	"time"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"

	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uint, purpose string) (*models.Item, error)
	Save(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id uint, purpose string) error
	ListActive(ctx context.Context, purpose, category, title string) ([]models.Item, error)
	ListByOwner(ctx context.Context, purpose string, ngoID uint, status string) ([]models.Item, error)
	FindExpiredDonations(ctx context.Context, now time.Time) ([]models.Item, error)
	FinalizeStatus(ctx context.Context, item *models.Item) error
	BulkFinalizeRelocations(ctx context.Context, now time.Time) (int64, error)
	PurgeFinalizedBefore(ctx context.Context, purpose string, cutoff time.Time) (int64, error)
	Count(ctx context.Context, purpose string) (int64, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetByID(ctx context.Context, id uint, purpose string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Preload("Ngo").
		First(&item, "id = ? AND purpose = ?", id, purpose).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Save(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uint, purpose string) error {
	return r.db.WithContext(ctx).
		Delete(&models.Item{}, "id = ? AND purpose = ?", id, purpose).
		Error
}

// ListActive returns the public catalog for one purpose. Donations are
// ordered most-urgent first, nearest deadline first; relocations oldest
// first.
func (r *itemRepository) ListActive(ctx context.Context, purpose, category, title string) ([]models.Item, error) {
	q := r.db.WithContext(ctx).
		Preload("Ngo").
		Where("purpose = ? AND status = ?", purpose, models.StatusActive)

	if category != "" {
		q = q.Where("category = ?", category)
	}
	if title != "" {
		q = q.Where("title ILIKE ?", "%"+title+"%")
	}

	if purpose == models.PurposeDonation {
		q = q.Order("CASE urgency WHEN 'ALTA' THEN 3 WHEN 'MEDIA' THEN 2 ELSE 1 END DESC").
			Order("needed_by ASC NULLS LAST")
	} else {
		q = q.Order("created_at ASC")
	}

	var items []models.Item
	err := q.Find(&items).Error
	return items, err
}

func (r *itemRepository) ListByOwner(ctx context.Context, purpose string, ngoID uint, status string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("purpose = ? AND ngo_id = ? AND status = ?", purpose, ngoID, status).
		Order("created_at DESC").
		Find(&items).
		Error
	return items, err
}

func (r *itemRepository) FindExpiredDonations(ctx context.Context, now time.Time) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("purpose = ? AND status = ? AND needed_by < ?",
			models.PurposeDonation, models.StatusActive, now).
		Find(&items).
		Error
	return items, err
}

// FinalizeStatus persists only the fields the transition touched, so a
// concurrent content update on the same row is not overwritten.
func (r *itemRepository) FinalizeStatus(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"status":       item.Status,
			"finalized_at": item.FinalizedAt,
		}).
		Error
}

// BulkFinalizeRelocations runs the age-based transition as one UPDATE.
func (r *itemRepository) BulkFinalizeRelocations(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("purpose = ? AND status = ? AND needed_by < ?",
			models.PurposeRelocation, models.StatusActive, now).
		Updates(map[string]any{
			"status":       models.StatusFinalized,
			"finalized_at": now.UTC(),
		})
	return res.RowsAffected, res.Error
}

// PurgeFinalizedBefore permanently removes finalized items older than the
// retention cutoff, as one DELETE.
func (r *itemRepository) PurgeFinalizedBefore(ctx context.Context, purpose string, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("purpose = ? AND status = ? AND finalized_at < ?",
			purpose, models.StatusFinalized, cutoff).
		Delete(&models.Item{})
	return res.RowsAffected, res.Error
}

func (r *itemRepository) Count(ctx context.Context, purpose string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("purpose = ?", purpose).
		Count(&count).
		Error
	return count, err
}
