// Package display holds the example observers that render views derived
// from station measurements.
package display

import (
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/i474232898/weather-station/internal/weather"
)

// Display is an observer with an identity and a renderable view.
type Display interface {
	weather.Observer

	ID() uuid.UUID
	Name() string

	// Display renders the current view to the display's writer.
	Display() error

	// View returns the JSON-serializable view, or weather.ErrNoSamples
	// before the first update.
	View() (any, error)
}

// base carries the identity and output shared by all displays.
type base struct {
	id   uuid.UUID
	name string
	out  io.Writer
}

func newBase(name string, out io.Writer) base {
	if out == nil {
		out = os.Stdout
	}
	return base{
		id:   uuid.New(),
		name: name,
		out:  out,
	}
}

func (b *base) ID() uuid.UUID { return b.id }

func (b *base) Name() string { return b.name }

// Index tracks every display built by the service, independent of station
// membership, so a removed display's frozen view stays reachable.
type Index struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]Display
	order []Display
}

// NewIndex returns an Index holding ds.
func NewIndex(ds ...Display) *Index {
	idx := &Index{byID: make(map[uuid.UUID]Display, len(ds))}
	for _, d := range ds {
		idx.Add(d)
	}
	return idx
}

// Add records d. Adding the same id twice keeps the first display.
func (i *Index) Add(d Display) {
	if d == nil {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.byID[d.ID()]; ok {
		return
	}
	i.byID[d.ID()] = d
	i.order = append(i.order, d)
}

// Get returns the display with the given id.
func (i *Index) Get(id uuid.UUID) (Display, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	d, ok := i.byID[id]
	return d, ok
}

// All returns the recorded displays in the order they were added.
func (i *Index) All() []Display {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]Display, len(i.order))
	copy(out, i.order)
	return out
}

var (
	_ Display = (*CurrentConditions)(nil)
	_ Display = (*Forecast)(nil)
	_ Display = (*Statistics)(nil)
)
