package provider

import (
	"sort"
	"strings"

	"github.com/flowpark/backend/internal/domain"
)

// Registry maps city identifiers to their providers. Adding a city means
// implementing CityProvider and registering it here at wiring time.
type Registry struct {
	providers map[string]CityProvider
}

// NewRegistry builds a registry keyed by each provider's lowercased name.
func NewRegistry(providers ...CityProvider) *Registry {
	m := make(map[string]CityProvider, len(providers))
	for _, p := range providers {
		m[strings.ToLower(p.Name())] = p
	}
	return &Registry{providers: m}
}

// Provider resolves a city case-insensitively. Unknown cities return
// domain.ErrUnsupportedCity.
func (r *Registry) Provider(city string) (CityProvider, error) {
	p, ok := r.providers[strings.ToLower(city)]
	if !ok {
		return nil, domain.ErrUnsupportedCity
	}
	return p, nil
}

// SupportedCities returns the registered city identifiers, sorted.
func (r *Registry) SupportedCities() []string {
	cities := make([]string, 0, len(r.providers))
	for city := range r.providers {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}
