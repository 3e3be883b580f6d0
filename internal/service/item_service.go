package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/apperrors"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/repository"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/validation"

	"gorm.io/gorm"
)

// RetentionMonths is how long a finalized item stays visible before the
// purge job removes it permanently.
const RetentionMonths = 6

const listCacheTTL = 5 * time.Minute

type ItemService interface {
	ListPublic(ctx context.Context, purpose, category, title string) ([]models.Item, error)
	GetByID(ctx context.Context, purpose string, id uint) (*models.Item, error)
	ListMine(ctx context.Context, purpose string, ngoID uint, status string) ([]models.Item, error)
	Create(ctx context.Context, purpose string, ngoID uint, fields map[string]any) (*models.Item, error)
	Update(ctx context.Context, purpose string, id, ngoID uint, fields map[string]any) (*models.Item, error)
	SetStatus(ctx context.Context, purpose string, id, ngoID uint, status string) (*models.Item, error)
	Delete(ctx context.Context, purpose string, id, ngoID uint) error

	// Bulk time-driven transitions, invoked by the expiration workers and
	// the manual admin triggers. They operate system-wide and skip the
	// ownership guard.
	FinalizeExpiredDonations(ctx context.Context) ([]uint, error)
	FinalizeAgedRelocations(ctx context.Context) (int64, error)
	PurgeOldItems(ctx context.Context, purpose string) (int64, error)
}

type itemService struct {
	repo      repository.ItemRepository
	cacheRepo repository.CacheRepository
	now       func() time.Time
}

func NewItemService(repo repository.ItemRepository, cacheRepo repository.CacheRepository) ItemService {
	return &itemService{
		repo:      repo,
		cacheRepo: cacheRepo,
		now:       time.Now,
	}
}

func (s *itemService) ListPublic(ctx context.Context, purpose, category, title string) ([]models.Item, error) {
	cacheKey := fmt.Sprintf("items:%s:%s:%s", purpose, category, title)

	var cached []models.Item
	if err := s.cacheRepo.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	items, err := s.repo.ListActive(ctx, purpose, category, title)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	if err := s.cacheRepo.SetJSON(ctx, cacheKey, items, listCacheTTL); err != nil {
		log.Printf("Failed to cache item list: %v", err)
	}

	return items, nil
}

func (s *itemService) GetByID(ctx context.Context, purpose string, id uint) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id, purpose)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("item não encontrado")
		}
		return nil, fmt.Errorf("failed to load item %d: %w", id, err)
	}
	return item, nil
}

func (s *itemService) ListMine(ctx context.Context, purpose string, ngoID uint, status string) ([]models.Item, error) {
	if status != models.StatusActive && status != models.StatusFinalized {
		return nil, apperrors.NewValidation("status", "status deve ser ATIVA ou FINALIZADA")
	}

	items, err := s.repo.ListByOwner(ctx, purpose, ngoID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list own items: %w", err)
	}
	return items, nil
}

func (s *itemService) Create(ctx context.Context, purpose string, ngoID uint, fields map[string]any) (*models.Item, error) {
	now := s.now()

	if err := validation.ValidateItem(fields, purpose, validation.ModeCreate, now); err != nil {
		return nil, err
	}

	item := &models.Item{
		Status: models.StatusActive,
		NgoID:  ngoID,
	}
	s.applyFields(item, fields, purpose, now)

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.invalidateListCache(ctx, purpose)
	return item, nil
}

// Update is a full replace: required fields must all be present again and
// optional donation fields not resent are cleared. Identity fields (owner,
// purpose, status, timestamps) are never touched.
func (s *itemService) Update(ctx context.Context, purpose string, id, ngoID uint, fields map[string]any) (*models.Item, error) {
	item, err := s.GetByID(ctx, purpose, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ngoID, item); err != nil {
		return nil, err
	}
	if item.IsFinalized() {
		return nil, apperrors.NewConflict("o item só pode ser atualizado enquanto estiver ATIVA")
	}

	now := s.now()
	if err := validation.ValidateItem(fields, purpose, validation.ModeCreate, now); err != nil {
		return nil, err
	}

	s.applyFields(item, fields, purpose, now)

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item %d: %w", id, err)
	}

	s.invalidateListCache(ctx, purpose)
	return item, nil
}

func (s *itemService) SetStatus(ctx context.Context, purpose string, id, ngoID uint, status string) (*models.Item, error) {
	item, err := s.GetByID(ctx, purpose, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ngoID, item); err != nil {
		return nil, err
	}

	if err := item.SetStatus(status, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.FinalizeStatus(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to persist status of item %d: %w", id, err)
	}

	s.invalidateListCache(ctx, purpose)
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, purpose string, id, ngoID uint) error {
	item, err := s.GetByID(ctx, purpose, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(ngoID, item); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, purpose); err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}

	s.invalidateListCache(ctx, purpose)
	return nil
}

// FinalizeExpiredDonations transitions every active donation whose deadline
// has passed. Each row goes through the same transition function as the
// manual path so FinalizedAt is stamped identically; one bad row never
// aborts the batch, the result lists only the ids actually finalized.
func (s *itemService) FinalizeExpiredDonations(ctx context.Context) ([]uint, error) {
	unlock, err := s.acquireJobLock(ctx, "finalize", models.PurposeDonation)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.now()
	expired, err := s.repo.FindExpiredDonations(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired donations: %w", err)
	}

	finalized := make([]uint, 0, len(expired))
	for i := range expired {
		item := &expired[i]
		if err := item.Finalize(now); err != nil {
			log.Printf("Skipping donation %d: %v", item.ID, err)
			continue
		}
		if err := s.repo.FinalizeStatus(ctx, item); err != nil {
			log.Printf("Failed to finalize donation %d: %v", item.ID, err)
			continue
		}
		finalized = append(finalized, item.ID)
	}

	if len(finalized) > 0 {
		s.invalidateListCache(ctx, models.PurposeDonation)
	}
	return finalized, nil
}

// FinalizeAgedRelocations closes every active relocation past its window
// in a single store-level update.
func (s *itemService) FinalizeAgedRelocations(ctx context.Context) (int64, error) {
	unlock, err := s.acquireJobLock(ctx, "finalize", models.PurposeRelocation)
	if err != nil {
		return 0, err
	}
	defer unlock()

	count, err := s.repo.BulkFinalizeRelocations(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to finalize aged relocations: %w", err)
	}

	if count > 0 {
		s.invalidateListCache(ctx, models.PurposeRelocation)
	}
	return count, nil
}

// PurgeOldItems permanently deletes finalized items past the retention
// window. This is the only deletion path not initiated by an owner.
func (s *itemService) PurgeOldItems(ctx context.Context, purpose string) (int64, error) {
	unlock, err := s.acquireJobLock(ctx, "purge", purpose)
	if err != nil {
		return 0, err
	}
	defer unlock()

	cutoff := s.now().AddDate(0, -RetentionMonths, 0)
	count, err := s.repo.PurgeFinalizedBefore(ctx, purpose, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge old items: %w", err)
	}
	return count, nil
}

// acquireJobLock takes a short redis lock so a scheduled run and a manual
// admin trigger of the same bulk job cannot overlap.
func (s *itemService) acquireJobLock(ctx context.Context, job, purpose string) (func(), error) {
	key := fmt.Sprintf("jobs:%s:%s", job, purpose)

	ok, err := s.cacheRepo.SetNX(ctx, key, "1", 10*time.Minute)
	if err != nil {
		log.Printf("Failed to acquire job lock %s (continuing without): %v", key, err)
		return func() {}, nil
	}
	if !ok {
		return nil, apperrors.NewConflict("já existe uma execução em andamento para esta operação")
	}

	return func() {
		if err := s.cacheRepo.Delete(ctx, key); err != nil {
			log.Printf("Failed to release job lock %s: %v", key, err)
		}
	}, nil
}

// applyFields copies validated fields onto the item. The purpose picks
// which deadline rule applies: donations take an explicit date or a
// daysValid offset, relocations get creation date + fixed window and
// ignore whatever the caller sent for urgency or deadline. A relocation
// deadline is stamped once and never moves on update, otherwise an owner
// could extend the window indefinitely by resubmitting the item.
func (s *itemService) applyFields(item *models.Item, fields map[string]any, purpose string, now time.Time) {
	item.Purpose = purpose
	item.Title = fieldString(fields, "title")
	item.Description = fieldString(fields, "description")
	item.Category = fieldString(fields, "category")
	item.ImageURL = fieldString(fields, "imageUrl")
	item.ContactWhatsapp = fieldString(fields, "contactWhatsapp")
	item.ContactEmail = fieldString(fields, "contactEmail")

	item.Quantity = 1
	if q, ok := fields["quantity"].(int); ok {
		item.Quantity = q
	}

	if purpose == models.PurposeDonation {
		item.Urgency = fieldString(fields, "urgency")
		item.NeededBy = nil
		if deadline, ok := fields["neededBy"].(time.Time); ok {
			item.NeededBy = &deadline
		} else if days, ok := fields["daysValid"].(int); ok {
			deadline := dateOnly(now).AddDate(0, 0, days)
			item.NeededBy = &deadline
		}
	} else {
		item.Urgency = ""
		if item.NeededBy == nil {
			deadline := dateOnly(now).AddDate(0, 0, models.RelocationWindowDays)
			item.NeededBy = &deadline
		}
	}
}

func (s *itemService) invalidateListCache(ctx context.Context, purpose string) {
	if err := s.cacheRepo.DeletePattern(ctx, "items:"+purpose+":*"); err != nil {
		log.Printf("Failed to invalidate item list cache: %v", err)
	}
}

func fieldString(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
