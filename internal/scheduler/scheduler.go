package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"

	"github.com/i474232898/weather-station/internal/weather"
)

const (
	defaultInterval = 15 * time.Minute
	pollTimeout     = 30 * time.Second
)

// Poller is what the scheduler drives. *weather.Poller satisfies it.
type Poller interface {
	HasSources() bool
	Poll(ctx context.Context) (weather.Measurements, error)
}

// Scheduler periodically polls the configured sources and feeds the station.
type Scheduler struct {
	scheduler *gocron.Scheduler
	poller    Poller
	interval  time.Duration
}

// New creates a new Scheduler. Non-positive intervals fall back to 15 minutes.
func New(interval time.Duration, poller Poller) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		poller:    poller,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first poll runs immediately.
func (s *Scheduler) Start() error {
	if !s.poller.HasSources() {
		log.Info("scheduler: no sources configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	log.Debug("scheduler: running weather poll job")

	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	m, err := s.poller.Poll(ctx)
	if err != nil {
		log.WithError(err).Warn("scheduler: poll failed")
		return
	}
	log.WithFields(log.Fields{
		"temperature": m.Temperature,
		"humidity":    m.Humidity,
		"pressure":    m.Pressure,
	}).Info("scheduler: measurements updated")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
