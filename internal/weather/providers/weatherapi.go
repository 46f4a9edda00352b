package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-station/internal/weather"
)

// WeatherAPIProvider implements the weather.Source interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    weatherAPIName,
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker(weatherAPIName),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Measurements, error) {
	if p.apiKey == "" {
		return weather.Measurements{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "city,country" or "lat,lon".
		if loc.Lat != nil && loc.Lon != nil {
			values.Set("q", fmt.Sprintf("%f,%f", *loc.Lat, *loc.Lon))
		} else {
			q := loc.City
			if loc.Country != "" {
				q = fmt.Sprintf("%s,%s", loc.City, loc.Country)
			}
			values.Set("q", q)
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Measurements{}, err
	}
	defer resp.Body.Close()

	// WeatherAPI already reports imperial units alongside metric ones.
	var payload struct {
		Current struct {
			TempF      float64 `json:"temp_f"`
			Humidity   float64 `json:"humidity"`
			PressureIn float64 `json:"pressure_in"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Measurements{}, fmt.Errorf("decode weatherapi response: %w", err)
	}

	return weather.Measurements{
		Temperature: payload.Current.TempF,
		Humidity:    payload.Current.Humidity,
		Pressure:    payload.Current.PressureIn,
	}, nil
}
