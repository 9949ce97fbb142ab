package scheduler

import (
	"context"
	"time"

	"github.com/fakhrymubarak/city-weather/internal/config"
	"github.com/fakhrymubarak/city-weather/internal/model"
	"github.com/go-co-op/gocron"
)

const defaultInterval = 15 * time.Minute

// Warmer is the part of the weather service the warm-up job drives.
type Warmer interface {
	MajorCities(ctx context.Context) model.BatchResult
}

// Scheduler periodically refreshes the major-city batch so the geocode cache stays warm.
type Scheduler struct {
	scheduler *gocron.Scheduler
	warmer    Warmer
	interval  time.Duration
	timeout   time.Duration
}

// New creates a Scheduler. A non-positive interval falls back to 15 minutes.
func New(warmer Warmer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		warmer:    warmer,
		interval:  interval,
		timeout:   config.GetHTTPTimeout() * 2,
	}
}

// Start schedules the warm-up job and starts the underlying scheduler. The first run is immediate.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.Run)
	if err != nil {
		return err
	}
	config.GetLogger().Infow("Warm-up scheduler started", "interval", s.interval)
	s.scheduler.StartAsync()
	return nil
}

// Run executes one warm-up pass.
func (s *Scheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	batch := s.warmer.MajorCities(ctx)
	config.GetLogger().Infow("Warm-up completed",
		"succeeded", batch.Succeeded,
		"failed", batch.Failed,
		"duration", time.Since(start))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
