package weather

import (
	"context"
)

// Source abstracts an external measurement source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
// Implementations return values already converted to station units (°F, %, inHg).
type Source interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (Measurements, error)
}

// Publisher is what pollers push aggregated measurements into. *Station satisfies it.
type Publisher interface {
	SetMeasurements(temperature, humidity, pressure float64) NotifyReport
}

var _ Publisher = (*Station)(nil)
