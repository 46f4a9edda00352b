package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-station/internal/weather"
)

const namespace = "weather_station"

// Exporter is an observer that mirrors every update into Prometheus gauges.
type Exporter struct {
	registry *prometheus.Registry

	temperature   prometheus.Gauge
	humidity      prometheus.Gauge
	pressure      prometheus.Gauge
	lastUpdate    prometheus.Gauge
	updates       prometheus.Counter
	notifyFailure prometheus.Counter
	observers     prometheus.GaugeFunc
}

// New creates an Exporter with its own registry. count, when non-nil,
// reports the number of registered observers at scrape time.
func New(count func() int) *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "temperature_fahrenheit",
			Help:      "Latest temperature broadcast by the station",
		}),
		humidity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "humidity_percent",
			Help:      "Latest relative humidity broadcast by the station",
		}),
		pressure: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pressure_inhg",
			Help:      "Latest barometric pressure broadcast by the station",
		}),
		lastUpdate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_update_time_seconds",
			Help:      "Unix time of the last update received",
		}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Measurement updates received",
		}),
		notifyFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observer_failures_total",
			Help:      "Observer updates that panicked during a notification pass",
		}),
	}

	e.registry.MustRegister(
		e.temperature,
		e.humidity,
		e.pressure,
		e.lastUpdate,
		e.updates,
		e.notifyFailure,
	)

	if count != nil {
		e.observers = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "observers",
			Help:      "Observers currently registered on the station",
		}, func() float64 { return float64(count()) })
		e.registry.MustRegister(e.observers)
	}

	return e
}

func (e *Exporter) Update(m weather.Measurements) {
	e.temperature.Set(m.Temperature)
	e.humidity.Set(m.Humidity)
	e.pressure.Set(m.Pressure)
	e.lastUpdate.Set(float64(time.Now().Unix()))
	e.updates.Inc()
}

// ObserveNotify records the outcome of a notification pass.
// It is meant to be passed to weather.WithNotifyHook.
func (e *Exporter) ObserveNotify(r weather.NotifyReport) {
	e.notifyFailure.Add(float64(r.Failed))
}

// Handler serves the exporter's registry in the Prometheus text format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

var _ weather.Observer = (*Exporter)(nil)
