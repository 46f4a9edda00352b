package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/i474232898/weather-station/internal/common"
	"github.com/i474232898/weather-station/internal/weather"
)

// Aggregate is the min, max and mean of one quantity, rounded to 2 decimals.
type Aggregate struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Summary holds the aggregates of every measured quantity.
type Summary struct {
	Samples     int       `json:"samples"`
	Temperature Aggregate `json:"temperature"`
	Humidity    Aggregate `json:"humidity"`
	Pressure    Aggregate `json:"pressure"`
}

// Statistics keeps the full history of every update and reports
// running min/max/avg over it. History is never evicted.
type Statistics struct {
	base

	mu          sync.Mutex
	temperature []float64
	humidity    []float64
	pressure    []float64
}

// NewStatistics creates the display and registers it on s.
func NewStatistics(s *weather.Station, out io.Writer) *Statistics {
	d := &Statistics{base: newBase("statistics", out)}
	s.RegisterObserver(d)
	return d
}

func (d *Statistics) Update(m weather.Measurements) {
	d.mu.Lock()
	d.temperature = append(d.temperature, m.Temperature)
	d.humidity = append(d.humidity, m.Humidity)
	d.pressure = append(d.pressure, m.Pressure)
	d.mu.Unlock()

	_ = d.Display()
}

// Stats returns the aggregates over everything seen so far.
// Asking before the first update is a precondition violation reported as weather.ErrNoSamples.
func (d *Statistics) Stats() (Summary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.temperature) == 0 {
		return Summary{}, weather.ErrNoSamples
	}

	return Summary{
		Samples:     len(d.temperature),
		Temperature: aggregate(d.temperature),
		Humidity:    aggregate(d.humidity),
		Pressure:    aggregate(d.pressure),
	}, nil
}

func aggregate(values []float64) Aggregate {
	lo, hi, sum := values[0], values[0], 0.0
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
		sum += v
	}
	return Aggregate{
		Min: common.Round2(lo),
		Max: common.Round2(hi),
		Avg: common.Round2(sum / float64(len(values))),
	}
}

func (d *Statistics) Display() error {
	s, err := d.Stats()
	if err != nil {
		return err
	}

	rows := []struct {
		label string
		agg   Aggregate
	}{
		{"Temperature:", s.Temperature},
		{"Humidity:", s.Humidity},
		{"Pressure:", s.Pressure},
	}

	if _, err := fmt.Fprintln(d.out, "Weather Statistics:"); err != nil {
		return err
	}
	for _, r := range rows {
		_, err := fmt.Fprintf(d.out, "%s \tMin: %s \tMax: %s \tAvg: %s\n",
			r.label, formatValue(r.agg.Min), formatValue(r.agg.Max), formatValue(r.agg.Avg))
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(d.out)
	return err
}

func (d *Statistics) View() (any, error) {
	return d.Stats()
}
