package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-station/internal/common"
	"github.com/i474232898/weather-station/internal/weather"
)

// OpenWeatherProvider implements the weather.Source interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    openWeatherName,
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker(openWeatherName),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Measurements, error) {
	if p.apiKey == "" {
		return weather.Measurements{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		// Imperial gives °F; pressure is always reported in hPa.
		values.Set("units", "imperial")

		if loc.Lat != nil && loc.Lon != nil {
			values.Set("lat", fmt.Sprintf("%f", *loc.Lat))
			values.Set("lon", fmt.Sprintf("%f", *loc.Lon))
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

	var payload struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
			Pressure float64 `json:"pressure"`
		} `json:"main"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Measurements{}, fmt.Errorf("decode openweather response: %w", err)
	}

	return weather.Measurements{
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		Pressure:    common.HpaToInHg(payload.Main.Pressure),
	}, nil
}
