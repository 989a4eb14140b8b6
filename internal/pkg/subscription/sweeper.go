package subscription

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically downgrades users whose subscription window has
// lapsed. The webhook path never depends on it; activation stays absolute
// and idempotent either way.
type Sweeper struct {
	svc      *Service
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewSweeper builds a sweeper with the given interval (defaults to hourly).
func NewSweeper(svc *Service, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		svc:      svc,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine.
func (s *Sweeper) Start() {
	go s.run()
}

// Stop terminates the loop and waits for it to finish.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("subscription sweeper started (interval %s)", s.interval)
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.svc.DowngradeExpired(ctx)
	if err != nil {
		log.Printf("subscription sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("subscription sweep downgraded %d lapsed user(s)", count)
	}
}
