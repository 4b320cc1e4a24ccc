package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/flowpark/backend/internal/service"
)

// Scheduler periodically re-aggregates every supported city so the cache
// stays warm and clients rarely pay the cold-path latency.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *service.AggregationService
	interval  time.Duration
}

// New creates a new Scheduler.
func New(svc *service.AggregationService, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   svc,
		interval:  interval,
	}
}

// Start schedules the warm-up job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(func() {
		log.Println("scheduler: warming snapshot cache")

		var wg sync.WaitGroup
		for _, city := range s.service.SupportedCities() {
			city := city
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if _, err := s.service.Refresh(ctx, city, time.Now()); err != nil {
					log.Printf("scheduler: aggregation failed for %s: %v", city, err)
				}
			}()
		}
		wg.Wait()
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
