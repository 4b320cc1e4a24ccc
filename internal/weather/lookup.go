package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flowpark/backend/internal/domain"
)

// Coordinates of the supported cities. The set is closed: adding a city
// means adding a provider and a row here.
var cityCoords = map[string]struct{ Lat, Lon float64 }{
	"laval":  {48.07, -0.77},
	"rennes": {48.11, -1.67},
}

// Bad-weather threshold on the Open-Meteo weathercode scale. Codes above 50
// denote drizzle, rain, snow or storms.
const badWeatherCode = 50

// Lookup fetches current weather conditions from Open-Meteo.
// Open-Meteo needs no API key.
type Lookup struct {
	baseURL    string
	httpClient *http.Client
}

// NewLookup creates a new weather lookup
func NewLookup() *Lookup {
	return &Lookup{
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Current returns the current weather reading for a city. It never fails:
// an unknown city, a network error or a malformed payload all degrade to
// an unknown reading with is_bad=false.
func (l *Lookup) Current(ctx context.Context, city string) domain.WeatherReading {
	coords, ok := cityCoords[strings.ToLower(city)]
	if !ok {
		return unknownReading()
	}

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%.2f", coords.Lat))
	values.Set("longitude", fmt.Sprintf("%.2f", coords.Lon))
	values.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return unknownReading()
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		log.Printf("weather: fetch failed for %s: %v", city, err)
		return unknownReading()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("weather: unexpected status %d for %s", resp.StatusCode, city)
		return unknownReading()
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("weather: failed to decode response for %s: %v", city, err)
		return unknownReading()
	}

	isBad := payload.CurrentWeather.WeatherCode > badWeatherCode
	condition := domain.ConditionGood
	if isBad {
		condition = domain.ConditionBad
	}

	temp := payload.CurrentWeather.Temperature
	return domain.WeatherReading{
		Condition:   condition,
		IsBad:       isBad,
		Temperature: &temp,
	}
}

func unknownReading() domain.WeatherReading {
	return domain.WeatherReading{
		Condition: domain.ConditionUnknown,
		IsBad:     false,
	}
}
