package worker

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/service"
)

// DonationWorker finalizes donations whose deadline passed, then purges
// the ones finalized beyond the retention window. Every run is
// independent; a failed run is logged and the next tick fires regardless.
type DonationWorker struct {
	service  service.ItemService
	interval time.Duration
	delay    time.Duration
	stopChan chan struct{}
	running  atomic.Bool
}

func NewDonationWorker(service service.ItemService, interval, delay time.Duration) *DonationWorker {
	return &DonationWorker{
		service:  service,
		interval: interval,
		delay:    delay,
		stopChan: make(chan struct{}),
	}
}

func (w *DonationWorker) Start() {
	// Start runs on the scheduler goroutine while Stop comes from main,
	// so the flag flips atomically.
	if !w.running.CompareAndSwap(false, true) {
		return
	}

	log.Printf("Donation Worker started (interval %v, initial delay %v)", w.interval, w.delay)

	go w.run()
}

func (w *DonationWorker) Stop() {
	if !w.running.CompareAndSwap(true, false) {
		return
	}

	close(w.stopChan)
	log.Println("Donation Worker stopped")
}

func (w *DonationWorker) run() {
	// The initial delay staggers this job away from the relocation one.
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

func (w *DonationWorker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ids, err := w.service.FinalizeExpiredDonations(ctx)
	if err != nil {
		log.Printf("Donation Worker finalize error: %v", err)
	} else if len(ids) > 0 {
		log.Printf("Donation Worker: finalized %d expired donations %v", len(ids), ids)
	}

	count, err := w.service.PurgeOldItems(ctx, models.PurposeDonation)
	if err != nil {
		log.Printf("Donation Worker purge error: %v", err)
	} else if count > 0 {
		log.Printf("Donation Worker: purged %d old donations", count)
	}
}
