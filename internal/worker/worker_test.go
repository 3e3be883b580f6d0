package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"
)

// noopItemService satisfies the service interface without touching any
// store, so worker lifecycle can be tested in isolation.
type noopItemService struct{}

func (s *noopItemService) ListPublic(context.Context, string, string, string) ([]models.Item, error) {
	return nil, nil
}

func (s *noopItemService) GetByID(context.Context, string, uint) (*models.Item, error) {
	return nil, nil
}

func (s *noopItemService) ListMine(context.Context, string, uint, string) ([]models.Item, error) {
	return nil, nil
}

func (s *noopItemService) Create(context.Context, string, uint, map[string]any) (*models.Item, error) {
	return nil, nil
}

func (s *noopItemService) Update(context.Context, string, uint, uint, map[string]any) (*models.Item, error) {
	return nil, nil
}

func (s *noopItemService) SetStatus(context.Context, string, uint, uint, string) (*models.Item, error) {
	return nil, nil
}

func (s *noopItemService) Delete(context.Context, string, uint, uint) error { return nil }

func (s *noopItemService) FinalizeExpiredDonations(context.Context) ([]uint, error) {
	return nil, nil
}

func (s *noopItemService) FinalizeAgedRelocations(context.Context) (int64, error) { return 0, nil }

func (s *noopItemService) PurgeOldItems(context.Context, string) (int64, error) { return 0, nil }

// Start runs on a scheduler goroutine while Stop comes from main. Racing
// them must neither panic on a double channel close nor trip the race
// detector on the running flag.
func TestDonationWorkerConcurrentStartStop(t *testing.T) {
	w := NewDonationWorker(&noopItemService{}, time.Hour, time.Hour)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Start()
	}()
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Stop()
		}()
	}
	wg.Wait()

	w.Stop()
}

func TestRelocationWorkerConcurrentStartStop(t *testing.T) {
	w := NewRelocationWorker(&noopItemService{}, time.Hour, time.Hour)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Start()
	}()
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Stop()
		}()
	}
	wg.Wait()

	w.Stop()
}
