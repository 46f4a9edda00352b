package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-station/internal/common"
	"github.com/i474232898/weather-station/internal/weather"
)

// GeocodeFunc resolves a city/country pair into coordinates.
type GeocodeFunc func(city, country string) (lat, lon float64, err error)

// GoogleGeocoder returns a GeocodeFunc backed by the Google Geocoding API.
func GoogleGeocoder(apiKey string) GeocodeFunc {
	return func(city, country string) (float64, float64, error) {
		geocoder.ApiKey = apiKey
		loc, err := geocoder.Geocoding(geocoder.Address{
			City:    city,
			Country: country,
		})
		if err != nil {
			return 0, 0, fmt.Errorf("geocode %s,%s: %w", city, country, err)
		}
		return loc.Latitude, loc.Longitude, nil
	}
}

// OpenMeteoProvider implements the weather.Source interface for Open-Meteo.
// Open-Meteo only accepts coordinates; locations without them are geocoded
// once and the result is cached.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	geocode GeocodeFunc

	mu     sync.Mutex
	coords map[string][2]float64
}

// NewOpenMeteoProvider creates the provider. geocode may be nil, in which case
// only locations with explicit coordinates can be fetched.
func NewOpenMeteoProvider(client *http.Client, geocode GeocodeFunc) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    openMeteoName,
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker(openMeteoName),
		geocode: geocode,
		coords:  make(map[string][2]float64),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) resolve(loc weather.Location) (float64, float64, error) {
	if loc.Lat != nil && loc.Lon != nil {
		return *loc.Lat, *loc.Lon, nil
	}
	if p.geocode == nil {
		return 0, 0, fmt.Errorf("openmeteo requires latitude and longitude")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.coords[loc.Key()]; ok {
		return c[0], c[1], nil
	}
	lat, lon, err := p.geocode(loc.City, loc.Country)
	if err != nil {
		return 0, 0, err
	}
	p.coords[loc.Key()] = [2]float64{lat, lon}
	return lat, lon, nil
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Measurements, error) {
	lat, lon, err := p.resolve(loc)
	if err != nil {
		return weather.Measurements{}, err
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		// Open-Meteo defaults to °C and hPa.
		values.Set("current", "temperature_2m,relative_humidity_2m,pressure_msl")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Measurements{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
			PressureMSL float64 `json:"pressure_msl"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Measurements{}, fmt.Errorf("decode openmeteo response: %w", err)
	}

	return weather.Measurements{
		Temperature: common.CelsiusToFahrenheit(payload.Current.Temperature),
		Humidity:    payload.Current.Humidity,
		Pressure:    common.HpaToInHg(payload.Current.PressureMSL),
	}, nil
}
