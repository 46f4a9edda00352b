package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/i474232898/weather-station/internal/weather"
)

func fastBackoff(client *http.Client) HTTPClientConfig {
	cfg := defaultHTTPConfig(client)
	cfg.Backoff.InitialInterval = time.Millisecond
	cfg.Backoff.MaxInterval = 2 * time.Millisecond
	return cfg
}

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

var paris = weather.Location{City: "Paris", Country: "FR"}

func TestOpenWeatherFetch(t *testing.T) {
	g := NewWithT(t)

	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		g.Expect(r.URL.Query().Get("units")).To(Equal("imperial"))
		g.Expect(r.URL.Query().Get("q")).To(Equal("Paris,FR"))
		g.Expect(r.URL.Query().Get("appid")).To(Equal("secret"))
		_, _ = w.Write([]byte(`{"main":{"temp":71.6,"humidity":55,"pressure":1013.25}}`))
	})

	p := NewOpenWeatherProvider(srv.Client(), "secret")
	p.baseURL = srv.URL

	m, err := p.Fetch(context.Background(), paris)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(m.Temperature).To(Equal(71.6))
	g.Expect(m.Humidity).To(Equal(55.0))
	g.Expect(m.Pressure).To(BeNumerically("~", 29.92, 0.01))
}

func TestOpenWeatherRequiresKey(t *testing.T) {
	g := NewWithT(t)

	p := NewOpenWeatherProvider(http.DefaultClient, "")
	_, err := p.Fetch(context.Background(), paris)
	g.Expect(err).To(HaveOccurred())
}

func TestWeatherAPIFetch(t *testing.T) {
	g := NewWithT(t)

	lat, lon := 48.85, 2.35
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		g.Expect(r.URL.Query().Get("q")).To(Equal("48.850000,2.350000"))
		_, _ = w.Write([]byte(`{"current":{"temp_f":64.4,"humidity":81,"pressure_in":30.01}}`))
	})

	p := NewWeatherAPIProvider(srv.Client(), "secret")
	p.baseURL = srv.URL

	m, err := p.Fetch(context.Background(), weather.Location{City: "Paris", Country: "FR", Lat: &lat, Lon: &lon})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(m).To(Equal(weather.Measurements{Temperature: 64.4, Humidity: 81, Pressure: 30.01}))
}

func TestOpenMeteoGeocodesOnce(t *testing.T) {
	g := NewWithT(t)

	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		g.Expect(r.URL.Query().Get("latitude")).To(Equal("48.850000"))
		g.Expect(r.URL.Query().Has("temperature_unit")).To(BeFalse())
		_, _ = w.Write([]byte(`{"current":{"temperature_2m":10,"relative_humidity_2m":90,"pressure_msl":1000}}`))
	})

	var lookups int32
	geocode := func(city, country string) (float64, float64, error) {
		atomic.AddInt32(&lookups, 1)
		return 48.85, 2.35, nil
	}

	p := NewOpenMeteoProvider(srv.Client(), geocode)
	p.baseURL = srv.URL

	for i := 0; i < 2; i++ {
		m, err := p.Fetch(context.Background(), paris)
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(m.Temperature).To(Equal(50.0))
		g.Expect(m.Pressure).To(BeNumerically("~", 29.53, 0.01))
	}
	g.Expect(atomic.LoadInt32(&lookups)).To(Equal(int32(1)))
}

func TestOpenMeteoWithoutCoordinates(t *testing.T) {
	g := NewWithT(t)

	p := NewOpenMeteoProvider(http.DefaultClient, nil)
	_, err := p.Fetch(context.Background(), paris)
	g.Expect(err).To(MatchError(ContainSubstring("latitude and longitude")))
}

func TestRetriesServerErrors(t *testing.T) {
	g := NewWithT(t)

	var calls int32
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"current":{"temp_f":1,"humidity":2,"pressure_in":3}}`))
	})

	p := NewWeatherAPIProvider(srv.Client(), "secret")
	p.baseURL = srv.URL
	p.httpCfg = fastBackoff(srv.Client())

	m, err := p.Fetch(context.Background(), paris)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(m.Pressure).To(Equal(3.0))
	g.Expect(atomic.LoadInt32(&calls)).To(Equal(int32(3)))
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	g := NewWithT(t)

	var calls int32
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	p := NewOpenWeatherProvider(srv.Client(), "wrong")
	p.baseURL = srv.URL
	p.httpCfg = fastBackoff(srv.Client())

	_, err := p.Fetch(context.Background(), paris)
	g.Expect(errors.Is(err, errUnexpected)).To(BeTrue())
	g.Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
}

func TestNoHTTPClient(t *testing.T) {
	g := NewWithT(t)

	_, err := doRequestWithResilience(context.Background(), HTTPClientConfig{}, newCircuitBreaker("test"), nil)
	g.Expect(err).To(MatchError(errNoHTTPClient))
}
