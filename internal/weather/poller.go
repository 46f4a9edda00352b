package weather

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ErrNoReadings is returned when every source failed during a poll.
var ErrNoReadings = errors.New("no successful source readings")

// ErrNoSources is returned when a poll is attempted without any source configured.
var ErrNoSources = errors.New("no weather sources configured")

// Poller fetches from all sources and publishes the averaged result.
type Poller struct {
	publisher Publisher
	sources   []Source
	location  Location
}

// NewPoller creates a new Poller.
func NewPoller(publisher Publisher, sources []Source, loc Location) *Poller {
	return &Poller{
		publisher: publisher,
		sources:   sources,
		location:  loc,
	}
}

// HasSources reports whether any source is configured.
func (p *Poller) HasSources() bool {
	return len(p.sources) > 0
}

// Poll fetches from all sources concurrently, averages successful readings
// and publishes them. When every source fails the station keeps its last snapshot.
func (p *Poller) Poll(ctx context.Context) (Measurements, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings []Measurements
	)

	logger := log.WithField("location", p.location.Key())
	if len(p.sources) == 0 {
		logger.Error("poller: no sources available")
		return Measurements{}, ErrNoSources
	}

	for _, src := range p.sources {
		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := src.Fetch(ctx, p.location)
			if err != nil {
				// Log and continue; partial success is still published.
				logger.WithField("source", src.Name()).WithError(err).Warn("poller: fetch failed")
				return
			}

			mu.Lock()
			readings = append(readings, r)
			mu.Unlock()
		}()
	}

	wg.Wait()

	m, ok := AggregateReadings(readings)
	if !ok {
		logger.Warn("poller: no successful readings; keeping last snapshot")
		return Measurements{}, ErrNoReadings
	}

	report := p.publisher.SetMeasurements(m.Temperature, m.Humidity, m.Pressure)
	logger.WithFields(log.Fields{
		"sources":  len(readings),
		"notified": report.Notified,
		"failed":   report.Failed,
	}).Debug("poller: measurements published")
	return m, nil
}
