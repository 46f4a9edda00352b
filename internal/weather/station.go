package weather

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrObserverNotFound is returned when removing an observer that is not registered.
	ErrObserverNotFound = errors.New("observer not registered")

	// ErrNoSamples is returned when a derived view is requested before any update arrived.
	ErrNoSamples = errors.New("no measurements received yet")
)

// NotifyReport summarizes one notification pass.
type NotifyReport struct {
	Notified int `json:"notified"`
	Failed   int `json:"failed"`
}

// Option configures a Station.
type Option func(*Station)

// WithLogger sets the logger used for membership changes and observer failures.
func WithLogger(l log.FieldLogger) Option {
	return func(s *Station) {
		if l != nil {
			s.log = l
		}
	}
}

// WithNotifyHook registers a callback that receives the report of every pass.
func WithNotifyHook(fn func(NotifyReport)) Option {
	return func(s *Station) {
		s.hook = fn
	}
}

// Station owns the latest measurements and the ordered list of observers
// that are notified whenever the measurements change.
type Station struct {
	// mu guards observers and the current snapshot.
	mu        sync.Mutex
	observers []Observer
	current   Measurements
	updatedAt time.Time
	set       bool

	// notifyMu serializes SetMeasurements so passes never interleave.
	notifyMu sync.Mutex

	log  log.FieldLogger
	hook func(NotifyReport)
}

// NewStation creates a Station with no observers and zero measurements.
func NewStation(opts ...Option) *Station {
	s := &Station{
		log: log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterObserver appends o to the notification order. Registering the same
// observer twice makes it receive two updates per pass.
func (s *Station) RegisterObserver(o Observer) {
	if o == nil {
		s.log.Warn("station: ignoring nil observer")
		return
	}

	s.mu.Lock()
	s.observers = append(s.observers, o)
	n := len(s.observers)
	s.mu.Unlock()

	s.log.WithFields(log.Fields{
		"observer":  fmt.Sprintf("%T", o),
		"observers": n,
	}).Debug("station: observer registered")
}

// RemoveObserver unlinks the first registration of o.
// It returns ErrObserverNotFound if o is not registered.
func (s *Station) RemoveObserver(o Observer) error {
	if o == nil {
		return fmt.Errorf("%w: nil observer", ErrObserverNotFound)
	}

	s.mu.Lock()
	idx := -1
	for i, registered := range s.observers {
		if sameObserver(registered, o) {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %T", ErrObserverNotFound, o)
	}

	s.observers = append(s.observers[:idx], s.observers[idx+1:]...)
	n := len(s.observers)
	s.mu.Unlock()

	s.log.WithFields(log.Fields{
		"observer":  fmt.Sprintf("%T", o),
		"observers": n,
	}).Debug("station: observer removed")
	return nil
}

// Contains reports whether o is currently registered.
func (s *Station) Contains(o Observer) bool {
	if o == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, registered := range s.observers {
		if sameObserver(registered, o) {
			return true
		}
	}
	return false
}

// sameObserver reports whether a and b are the same registration.
// Interface comparison panics when the dynamic values hold funcs, maps or
// slices; such observers never match.
func sameObserver(a, b Observer) (match bool) {
	defer func() {
		if recover() != nil {
			match = false
		}
	}()
	return a == b
}

// NotifyObservers calls Update on every observer registered when the pass
// starts, in registration order, with the current measurements.
// A panicking observer is logged and skipped; the rest are still notified.
func (s *Station) NotifyObservers() NotifyReport {
	s.mu.Lock()
	members := make([]Observer, len(s.observers))
	copy(members, s.observers)
	m := s.current
	s.mu.Unlock()

	var report NotifyReport
	for _, o := range members {
		if err := s.deliver(o, m); err != nil {
			report.Failed++
			s.log.WithField("observer", fmt.Sprintf("%T", o)).WithError(err).Error("station: observer update failed")
			continue
		}
		report.Notified++
	}

	if s.hook != nil {
		s.hook(report)
	}
	return report
}

func (s *Station) deliver(o Observer, m Measurements) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in Update: %v", r)
		}
	}()
	o.Update(m)
	return nil
}

// SetMeasurements replaces the current snapshot and notifies all observers.
func (s *Station) SetMeasurements(temperature, humidity, pressure float64) NotifyReport {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.current = Measurements{
		Temperature: temperature,
		Humidity:    humidity,
		Pressure:    pressure,
	}
	s.updatedAt = time.Now().UTC()
	s.set = true
	s.mu.Unlock()

	return s.NotifyObservers()
}

// Measurements returns the latest snapshot and whether one was ever set.
func (s *Station) Measurements() (Measurements, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.set
}

// Latest returns the latest snapshot stamped with the time it was set.
func (s *Station) Latest() (Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return Reading{}, ErrNoSamples
	}
	return Reading{Timestamp: s.updatedAt, Measurements: s.current}, nil
}

// Observers returns a copy of the current notification order.
func (s *Station) Observers() []Observer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Observer, len(s.observers))
	copy(out, s.observers)
	return out
}

// Len returns the number of registrations, duplicates included.
func (s *Station) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}
