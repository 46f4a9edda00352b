package store

import (
	"time"

	"github.com/i474232898/weather-station/internal/weather"
)

// LatestReader exposes the timestamped snapshot being broadcast.
// *weather.Station satisfies it.
type LatestReader interface {
	Latest() (weather.Reading, error)
}

// Recorder is an observer that appends every update to a MemoryStore.
type Recorder struct {
	store  *MemoryStore
	source LatestReader
	now    func() time.Time
}

// NewRecorder creates a Recorder writing into store. Readings carry the
// timestamp source reports for the snapshot, so history and the current
// reading agree. With a nil source, or when the source has moved on, the
// recorder stamps the reading itself.
func NewRecorder(store *MemoryStore, source LatestReader) *Recorder {
	return &Recorder{
		store:  store,
		source: source,
		now:    time.Now,
	}
}

func (r *Recorder) Update(m weather.Measurements) {
	r.store.Save(weather.Reading{
		Timestamp:    r.timestamp(m),
		Measurements: m,
	})
}

func (r *Recorder) timestamp(m weather.Measurements) time.Time {
	if r.source != nil {
		if latest, err := r.source.Latest(); err == nil && latest.Measurements == m {
			return latest.Timestamp
		}
	}
	return r.now().UTC()
}

var _ weather.Observer = (*Recorder)(nil)
