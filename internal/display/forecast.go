package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/i474232898/weather-station/internal/common"
	"github.com/i474232898/weather-station/internal/weather"
)

// Forecast extrapolates a short-term forecast from the latest measurements.
type Forecast struct {
	base

	mu   sync.Mutex
	last weather.Measurements
	seen bool
}

// NewForecast creates the display and registers it on s.
func NewForecast(s *weather.Station, out io.Writer) *Forecast {
	d := &Forecast{base: newBase("forecast", out)}
	s.RegisterObserver(d)
	return d
}

func (d *Forecast) Update(m weather.Measurements) {
	d.mu.Lock()
	d.last = m
	d.seen = true
	d.mu.Unlock()

	_ = d.Display()
}

// Extrapolate computes the forecast for m, each value rounded to 2 decimals.
func Extrapolate(m weather.Measurements) weather.Measurements {
	return weather.Measurements{
		Temperature: common.Round2(m.Temperature + 0.11*m.Humidity + 0.2*m.Pressure),
		Humidity:    common.Round2(m.Humidity - 0.9*m.Humidity),
		Pressure:    common.Round2(m.Pressure + 0.1*m.Temperature - 0.21*m.Pressure),
	}
}

// Forecast returns the forecast for the last measurements seen.
func (d *Forecast) Forecast() (weather.Measurements, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.seen {
		return weather.Measurements{}, weather.ErrNoSamples
	}
	return Extrapolate(d.last), nil
}

func (d *Forecast) Display() error {
	f, err := d.Forecast()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(d.out, "Forecast conditions: %s F degrees and %s [%%] humidity and pressure %s\n\n",
		formatValue(f.Temperature), formatValue(f.Humidity), formatValue(f.Pressure))
	return err
}

func (d *Forecast) View() (any, error) {
	return d.Forecast()
}
