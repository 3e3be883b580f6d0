package worker

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/service"
)

// RelocationWorker closes relocations past their fixed window and purges
// the ones finalized beyond the retention window.
type RelocationWorker struct {
	service  service.ItemService
	interval time.Duration
	delay    time.Duration
	stopChan chan struct{}
	running  atomic.Bool
}

func NewRelocationWorker(service service.ItemService, interval, delay time.Duration) *RelocationWorker {
	return &RelocationWorker{
		service:  service,
		interval: interval,
		delay:    delay,
		stopChan: make(chan struct{}),
	}
}

func (w *RelocationWorker) Start() {
	if !w.running.CompareAndSwap(false, true) {
		return
	}

	log.Printf("Relocation Worker started (interval %v, initial delay %v)", w.interval, w.delay)

	go w.run()
}

func (w *RelocationWorker) Stop() {
	if !w.running.CompareAndSwap(true, false) {
		return
	}

	close(w.stopChan)
	log.Println("Relocation Worker stopped")
}

func (w *RelocationWorker) run() {
	select {
	case <-time.After(w.delay):
	case <-w.stopChan:
		return
	}

	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stopChan:
			return
		}
	}
}

func (w *RelocationWorker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	count, err := w.service.FinalizeAgedRelocations(ctx)
	if err != nil {
		log.Printf("Relocation Worker finalize error: %v", err)
	} else if count > 0 {
		log.Printf("Relocation Worker: finalized %d aged relocations", count)
	}

	purged, err := w.service.PurgeOldItems(ctx, models.PurposeRelocation)
	if err != nil {
		log.Printf("Relocation Worker purge error: %v", err)
	} else if purged > 0 {
		log.Printf("Relocation Worker: purged %d old relocations", purged)
	}
}
