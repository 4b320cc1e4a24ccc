package provider

import (
	"context"

	"github.com/flowpark/backend/internal/domain"
)

// FallbackPolicy documents what a provider returns when its upstream is
// unreachable. Scraping-based providers serve placeholder records so the app
// still has something to show; API-based providers serve an empty list.
type FallbackPolicy string

const (
	FallbackPlaceholder FallbackPolicy = "placeholder"
	FallbackEmpty       FallbackPolicy = "empty"
)

// CityProvider fetches urban data for a single city, from scraping or an
// open-data API. Transient fetch failures never escape a provider: every
// method degrades to the value dictated by its fallback policy.
type CityProvider interface {
	Name() string
	Fallback() FallbackPolicy

	Events(ctx context.Context) []domain.EventRecord
	Construction(ctx context.Context) []domain.ConstructionRecord

	// Parking returns nil for cities without a live parking feed. A city
	// that has one returns a list, possibly empty on failure.
	Parking(ctx context.Context) []domain.ParkingRecord
}
