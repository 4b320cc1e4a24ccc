package domain

import "time"

// EventRecord is a single cultural or public event fetched for a city
type EventRecord struct {
	Title  string `json:"title"`
	Date   string `json:"date,omitempty"`
	Source string `json:"source"`
}

// ConstructionRecord is an active roadwork zone fetched for a city
type ConstructionRecord struct {
	Location string `json:"location"`
	Impact   string `json:"impact,omitempty"`
	Source   string `json:"source"`
}

// ParkingRecord is a live occupancy reading for one parking facility
type ParkingRecord struct {
	Name      string `json:"name"`
	Available int    `json:"available"`
	Total     int    `json:"total,omitempty"`
	Source    string `json:"source"`
}

// UrbanSnapshot aggregates everything known about parking conditions in one
// city at one point in time. It is immutable once built: the cache hands out
// the same value it stored.
//
// Parking is nil for cities with no live parking feed. nil and an empty list
// mean different things (no capability vs. capability returned nothing), so
// the field marshals as null rather than being omitted.
type UrbanSnapshot struct {
	City              string               `json:"city"`
	PredictionScore   float64              `json:"prediction_score"`
	PredictionSummary string               `json:"prediction_summary"`
	Weather           WeatherReading       `json:"weather"`
	Events            []EventRecord        `json:"events"`
	Construction      []ConstructionRecord `json:"construction"`
	Parking           []ParkingRecord      `json:"parking"`
	GeneratedAt       time.Time            `json:"generated_at"`
}
