package worker

import (
	"context"
	"log"
	"time"
)

// TokenPurger is the slice of the token store the janitor uses.
type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// RunTokenJanitor deletes expired refresh tokens on a fixed tick until
// ctx is cancelled. Expired rows are dead weight; nothing reads them.
func RunTokenJanitor(ctx context.Context, tokens TokenPurger, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := tokens.PurgeExpired(ctx)
			if err != nil {
				log.Printf("janitor: purge expired refresh tokens failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("janitor: purged %d expired refresh token(s)", n)
			}
		}
	}
}
