// Package tomorrow fetches current conditions and a short forecast from the
// Tomorrow.io v4 forecast API.
package tomorrow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/agri-alert-impact/internal/domain"
	"github.com/couchcryptid/agri-alert-impact/internal/observability"
)

// Client implements domain.WeatherProvider using the Tomorrow.io API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Tomorrow.io weather client.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.tomorrow.io/v4/weather/forecast",
		metrics: metrics,
		logger:  logger,
	}
}

// Current returns the first hourly step and a three-day outlook for the region.
func (c *Client) Current(ctx context.Context, region domain.Region) (domain.Observation, error) {
	params := url.Values{
		"location":  {formatCoord(region.Coordinates.Lat) + "," + formatCoord(region.Coordinates.Lng)},
		"apikey":    {c.apiKey},
		"timesteps": {"1h,1d"},
		"units":     {"metric"},
	}

	start := time.Now()
	resp, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.Observation{}, fmt.Errorf("weather for %s: %w", region.Name, err)
	}

	obs, err := toObservation(resp)
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.Observation{}, fmt.Errorf("weather for %s: %w", region.Name, err)
	}
	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	obs.Region = region.Name
	c.logger.Debug("weather fetched", "region", region.Name, "condition", obs.Condition, "temperature", obs.Temperature)
	return obs, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return response{}, fmt.Errorf("tomorrow.io API error: status %d: %s", resp.StatusCode, body)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return response{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

var errIncomplete = errors.New("response missing hourly or daily timeline")

func toObservation(resp response) (domain.Observation, error) {
	hourly, daily := resp.Timelines.Hourly, resp.Timelines.Daily
	if len(hourly) == 0 || len(daily) == 0 {
		return domain.Observation{}, errIncomplete
	}

	now := hourly[0]
	v := now.Values
	obs := domain.Observation{
		Temperature: domain.RoundHalfUp(v.Temperature),
		Condition:   conditionName(v.WeatherCode),
		Humidity:    domain.RoundHalfUp(v.Humidity),
		WindSpeed:   domain.RoundHalfUp(v.WindSpeed * 3.6), // m/s to km/h
		Visibility:  domain.RoundHalfUp(v.Visibility),
		Rainfall:    domain.RoundHalfUp(v.PrecipitationIntensity*10) / 10,
		Icon:        iconName(v.WeatherCode),
		Forecast: domain.Forecast{
			Today:    fmt.Sprintf("%s with %s°C", conditionName(daily[0].code()), formatTemp(daily[0].Values.TemperatureAvg)),
			Tomorrow: dayOutlook(daily, 1),
			DayAfter: dayOutlook(daily, 2),
		},
	}
	if t, err := time.Parse(time.RFC3339, now.Time); err == nil {
		obs.ObservedAt = t.UTC()
	}
	return obs, nil
}

func dayOutlook(daily []dailyStep, i int) string {
	if i >= len(daily) {
		return "Data unavailable"
	}
	return fmt.Sprintf("%s, %s°C", conditionName(daily[i].code()), formatTemp(daily[i].Values.TemperatureAvg))
}

var conditionNames = map[int]string{
	0:    "Unknown",
	1000: "Clear",
	1100: "Mostly Clear",
	1101: "Partly Cloudy",
	1102: "Mostly Cloudy",
	2000: "Fog",
	2100: "Light Fog",
	4000: "Drizzle",
	4001: "Rain",
	4200: "Light Rain",
	4201: "Heavy Rain",
	8000: "Thunderstorm",
}

// conditionName maps a weather code to a label. Unlisted codes read as Clear.
func conditionName(code int) string {
	if name, ok := conditionNames[code]; ok {
		return name
	}
	return "Clear"
}

func iconName(code int) string {
	switch {
	case code == 1000 || code == 1100:
		return "sunny"
	case code >= 1001 && code <= 1102:
		return "partly-cloudy"
	case code >= 2000 && code <= 2100:
		return "foggy"
	case code >= 4000 && code <= 4201:
		return "rainy"
	case code == 8000:
		return "stormy"
	default:
		return "clear"
	}
}

func formatTemp(v float64) string {
	return strconv.FormatFloat(domain.RoundHalfUp(v), 'f', -1, 64)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Tomorrow.io API response types.

type response struct {
	Timelines struct {
		Hourly []hourlyStep `json:"hourly"`
		Daily  []dailyStep  `json:"daily"`
	} `json:"timelines"`
}

type hourlyStep struct {
	Time   string `json:"time"`
	Values struct {
		Temperature            float64 `json:"temperature"`
		Humidity               float64 `json:"humidity"`
		WindSpeed              float64 `json:"windSpeed"` // m/s
		Visibility             float64 `json:"visibility"`
		PrecipitationIntensity float64 `json:"precipitationIntensity"`
		WeatherCode            int     `json:"weatherCode"`
	} `json:"values"`
}

type dailyStep struct {
	Time   string `json:"time"`
	Values struct {
		TemperatureAvg float64 `json:"temperatureAvg"`
		WeatherCode    int     `json:"weatherCode"`
		WeatherCodeMax int     `json:"weatherCodeMax"`
	} `json:"values"`
}

// code prefers weatherCode and falls back to the daily maximum.
func (d dailyStep) code() int {
	if d.Values.WeatherCode != 0 {
		return d.Values.WeatherCode
	}
	return d.Values.WeatherCodeMax
}
