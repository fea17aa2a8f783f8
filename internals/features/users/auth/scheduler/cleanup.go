package scheduler

import (
	"context"
	"log"
	"time"
)

type BlacklistPurger interface {
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

// StartBlacklistCleanupScheduler membersihkan token_blacklist tiap 24 jam sampai ctx selesai.
// Baris disimpan ttlDays setelah expired supaya masih bisa diaudit.
func StartBlacklistCleanupScheduler(ctx context.Context, purger BlacklistPurger, ttlDays int) {
	if ttlDays < 0 {
		ttlDays = 0
	}
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			runCleanup(ctx, purger, ttlDays)
			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] scheduler stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

func runCleanup(ctx context.Context, purger BlacklistPurger, ttlDays int) {
	log.Println("[CLEANUP] running token_blacklist cleanup...")
	before := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)

	cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := purger.PurgeExpired(cctx, before)
	switch {
	case err != nil:
		log.Printf("[CLEANUP ERROR] purge failed: %v", err)
	case n > 0:
		log.Printf("[CLEANUP] %d expired tokens removed", n)
	default:
		log.Println("[CLEANUP] nothing to remove")
	}
}
