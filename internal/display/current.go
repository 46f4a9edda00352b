package display

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/i474232898/weather-station/internal/weather"
)

// CurrentConditions shows the latest measurements as received.
type CurrentConditions struct {
	base

	mu   sync.Mutex
	last weather.Measurements
	seen bool
}

// NewCurrentConditions creates the display and registers it on s.
func NewCurrentConditions(s *weather.Station, out io.Writer) *CurrentConditions {
	d := &CurrentConditions{base: newBase("current-conditions", out)}
	s.RegisterObserver(d)
	return d
}

func (d *CurrentConditions) Update(m weather.Measurements) {
	d.mu.Lock()
	d.last = m
	d.seen = true
	d.mu.Unlock()

	_ = d.Display()
}

// Current returns the last measurements seen.
func (d *CurrentConditions) Current() (weather.Measurements, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.seen {
		return weather.Measurements{}, weather.ErrNoSamples
	}
	return d.last, nil
}

func (d *CurrentConditions) Display() error {
	m, err := d.Current()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(d.out, "Current conditions: %s F degrees and %s [%%] humidity and pressure %s\n\n",
		formatValue(m.Temperature), formatValue(m.Humidity), formatValue(m.Pressure))
	return err
}

func (d *CurrentConditions) View() (any, error) {
	return d.Current()
}

// formatValue prints the shortest representation, so 80 renders as "80" and 30.4 as "30.4".
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
