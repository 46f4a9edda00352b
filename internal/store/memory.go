package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-station/internal/weather"
)

var (
	// ErrNotFound is returned when no reading is available for the requested range.
	ErrNotFound = errors.New("no weather readings recorded")
)

// MemoryStore is a concurrency-safe in-memory history of station readings.
type MemoryStore struct {
	mu       sync.RWMutex
	readings []weather.Reading

	// retention configuration
	maxHistory int           // max number of readings kept
	maxAge     time.Duration // optional max age for readings

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory or maxAge is <= 0, that limit is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends a reading and enforces retention.
func (s *MemoryStore) Save(r weather.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readings = append(s.readings, r)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.readings) > s.maxHistory {
		over := len(s.readings) - s.maxHistory
		s.readings = s.readings[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.readings); i++ {
			if !s.readings[i].Timestamp.Before(cutoff) {
				break
			}
		}
		s.readings = s.readings[i:]
	}
}

// GetLatest returns the most recent reading.
func (s *MemoryStore) GetLatest() (weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.readings) == 0 {
		return weather.Reading{}, ErrNotFound
	}
	return s.readings[len(s.readings)-1], nil
}

// GetRange returns all readings between from and to (inclusive).
func (s *MemoryStore) GetRange(from, to time.Time) ([]weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.readings) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.Reading
	for _, r := range s.readings {
		if !r.Timestamp.Before(from) && !r.Timestamp.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}

// Len returns the number of retained readings.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.readings)
}
