package store

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/i474232898/weather-station/internal/weather"
)

func reading(ts time.Time, temp float64) weather.Reading {
	return weather.Reading{
		Timestamp:    ts,
		Measurements: weather.Measurements{Temperature: temp, Humidity: 50, Pressure: 30},
	}
}

func TestEmptyStore(t *testing.T) {
	g := NewWithT(t)

	s := NewMemoryStore(10, 0)
	_, err := s.GetLatest()
	g.Expect(err).To(MatchError(ErrNotFound))

	_, err = s.GetRange(time.Time{}, time.Now())
	g.Expect(err).To(MatchError(ErrNotFound))
}

func TestRetentionByCount(t *testing.T) {
	g := NewWithT(t)

	s := NewMemoryStore(2, 0)
	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s.Save(reading(base.Add(time.Duration(i)*time.Minute), float64(70+i)))
	}

	g.Expect(s.Len()).To(Equal(2))
	latest, err := s.GetLatest()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(latest.Temperature).To(Equal(72.0))
}

func TestRetentionByAge(t *testing.T) {
	g := NewWithT(t)

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }

	s.Save(reading(now.Add(-3*time.Hour), 60))
	s.Save(reading(now.Add(-2*time.Hour), 61))
	g.Expect(s.Len()).To(BeZero())

	s.Save(reading(now.Add(-30*time.Minute), 62))
	g.Expect(s.Len()).To(Equal(1))
}

func TestGetRangeInclusive(t *testing.T) {
	g := NewWithT(t)

	s := NewMemoryStore(0, 0)
	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		s.Save(reading(base.Add(time.Duration(i)*time.Hour), float64(i)))
	}

	got, err := s.GetRange(base.Add(time.Hour), base.Add(2*time.Hour))
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(got).To(HaveLen(2))
	g.Expect(got[0].Temperature).To(Equal(1.0))
	g.Expect(got[1].Temperature).To(Equal(2.0))

	_, err = s.GetRange(base.Add(10*time.Hour), base.Add(11*time.Hour))
	g.Expect(err).To(MatchError(ErrNotFound))
}

func TestRecorderUsesStationTimestamp(t *testing.T) {
	g := NewWithT(t)

	ms := NewMemoryStore(0, 0)
	st := weather.NewStation()
	rec := NewRecorder(ms, st)
	rec.now = func() time.Time { return time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC) }
	st.RegisterObserver(rec)

	st.SetMeasurements(80, 65, 30.4)

	current, err := st.Latest()
	g.Expect(err).ToNot(HaveOccurred())
	latest, err := ms.GetLatest()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(latest).To(Equal(current))
}

func TestRecorderFallsBackToClock(t *testing.T) {
	g := NewWithT(t)

	ms := NewMemoryStore(0, 0)
	rec := NewRecorder(ms, nil)
	fixed := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	rec.now = func() time.Time { return fixed }

	st := weather.NewStation()
	st.RegisterObserver(rec)
	st.SetMeasurements(80, 65, 30.4)

	// A direct notify before any set has no station timestamp to borrow.
	other := weather.NewStation()
	stamped := NewRecorder(ms, other)
	stamped.now = func() time.Time { return fixed.Add(time.Minute) }
	stamped.Update(weather.Measurements{Temperature: 1, Humidity: 2, Pressure: 3})

	got, err := ms.GetRange(fixed, fixed.Add(time.Minute))
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(got).To(Equal([]weather.Reading{
		{Timestamp: fixed, Measurements: weather.Measurements{Temperature: 80, Humidity: 65, Pressure: 30.4}},
		{Timestamp: fixed.Add(time.Minute), Measurements: weather.Measurements{Temperature: 1, Humidity: 2, Pressure: 3}},
	}))
}
