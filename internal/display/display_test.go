package display

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	log "github.com/sirupsen/logrus"

	"github.com/i474232898/weather-station/internal/weather"
)

func newStation() *weather.Station {
	l := log.New()
	l.SetOutput(io.Discard)
	return weather.NewStation(weather.WithLogger(l))
}

func TestExtrapolate(t *testing.T) {
	g := NewWithT(t)

	f := Extrapolate(weather.Measurements{Temperature: 80, Humidity: 65, Pressure: 30.4})
	g.Expect(f).To(Equal(weather.Measurements{Temperature: 93.23, Humidity: 6.5, Pressure: 32.02}))
}

func TestForecastDisplay(t *testing.T) {
	g := NewWithT(t)

	s := newStation()
	var out bytes.Buffer
	d := NewForecast(s, &out)

	_, err := d.Forecast()
	g.Expect(err).To(MatchError(weather.ErrNoSamples))

	s.SetMeasurements(80, 65, 30.4)
	g.Expect(out.String()).To(Equal("Forecast conditions: 93.23 F degrees and 6.5 [%] humidity and pressure 32.02\n\n"))
}

func TestCurrentConditionsDisplay(t *testing.T) {
	g := NewWithT(t)

	s := newStation()
	var out bytes.Buffer
	d := NewCurrentConditions(s, &out)

	g.Expect(d.Display()).To(MatchError(weather.ErrNoSamples))
	g.Expect(out.Len()).To(BeZero())

	s.SetMeasurements(80, 65, 30.4)
	g.Expect(out.String()).To(Equal("Current conditions: 80 F degrees and 65 [%] humidity and pressure 30.4\n\n"))

	view, err := d.View()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(view).To(Equal(weather.Measurements{Temperature: 80, Humidity: 65, Pressure: 30.4}))
}

func TestStatisticsAggregation(t *testing.T) {
	g := NewWithT(t)

	s := newStation()
	d := NewStatistics(s, io.Discard)

	_, err := d.Stats()
	g.Expect(err).To(MatchError(weather.ErrNoSamples))
	g.Expect(d.Display()).To(MatchError(weather.ErrNoSamples))

	s.SetMeasurements(80, 65, 30.4)
	s.SetMeasurements(82, 70, 29.2)
	s.SetMeasurements(78, 90, 29.2)

	stats, err := d.Stats()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(stats.Samples).To(Equal(3))
	g.Expect(stats.Temperature).To(Equal(Aggregate{Min: 78, Max: 82, Avg: 80}))
	g.Expect(stats.Humidity).To(Equal(Aggregate{Min: 65, Max: 90, Avg: 75}))
	g.Expect(stats.Pressure).To(Equal(Aggregate{Min: 29.2, Max: 30.4, Avg: 29.6}))
}

func TestStatisticsRender(t *testing.T) {
	g := NewWithT(t)

	s := newStation()
	var out bytes.Buffer
	NewStatistics(s, &out)

	s.SetMeasurements(80, 65, 30.4)

	g.Expect(out.String()).To(Equal("Weather Statistics:\n" +
		"Temperature: \tMin: 80 \tMax: 80 \tAvg: 80\n" +
		"Humidity: \tMin: 65 \tMax: 65 \tAvg: 65\n" +
		"Pressure: \tMin: 30.4 \tMax: 30.4 \tAvg: 30.4\n\n"))
}

func TestCanonicalScenario(t *testing.T) {
	g := NewWithT(t)

	s := newStation()
	current := NewCurrentConditions(s, io.Discard)
	statistics := NewStatistics(s, io.Discard)
	forecast := NewForecast(s, io.Discard)

	g.Expect(s.Len()).To(Equal(3))

	s.SetMeasurements(80, 65, 30.4)
	s.SetMeasurements(82, 70, 29.2)
	s.SetMeasurements(78, 90, 29.2)

	g.Expect(s.RemoveObserver(current)).To(Succeed())
	g.Expect(s.RemoveObserver(statistics)).To(Succeed())

	report := s.SetMeasurements(120, 100, 1000)
	g.Expect(report.Notified).To(Equal(1))

	last, err := current.Current()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(last).To(Equal(weather.Measurements{Temperature: 78, Humidity: 90, Pressure: 29.2}))

	stats, err := statistics.Stats()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(stats.Samples).To(Equal(3))

	f, err := forecast.Forecast()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(f).To(Equal(Extrapolate(weather.Measurements{Temperature: 120, Humidity: 100, Pressure: 1000})))

	// Removing again reports the missing registration.
	g.Expect(s.RemoveObserver(current)).To(MatchError(weather.ErrObserverNotFound))
}

func TestIndex(t *testing.T) {
	g := NewWithT(t)

	s := newStation()
	f := NewForecast(s, io.Discard)
	c := NewCurrentConditions(s, io.Discard)
	idx := NewIndex(f, c, f, nil)

	g.Expect(idx.All()).To(Equal([]Display{f, c}))

	found, ok := idx.Get(f.ID())
	g.Expect(ok).To(BeTrue())
	g.Expect(found).To(BeIdenticalTo(f))

	_, ok = idx.Get(uuid.New())
	g.Expect(ok).To(BeFalse())
}

func TestIndexKeepsRemovedDisplays(t *testing.T) {
	g := NewWithT(t)

	s := newStation()
	c := NewCurrentConditions(s, io.Discard)
	idx := NewIndex(c)

	s.SetMeasurements(80, 65, 30.4)
	g.Expect(s.RemoveObserver(c)).To(Succeed())
	s.SetMeasurements(120, 100, 1000)

	found, ok := idx.Get(c.ID())
	g.Expect(ok).To(BeTrue())
	view, err := found.View()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(view).To(Equal(weather.Measurements{Temperature: 80, Humidity: 65, Pressure: 30.4}))
}
