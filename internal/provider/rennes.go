package provider

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/flowpark/backend/internal/domain"
)

// RennesProvider queries the Rennes Métropole open-data API. Official APIs
// are preferred over scraping when a city offers them. Failures degrade to
// empty lists: the API is authoritative, placeholder data would be misleading.
type RennesProvider struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewRennes creates the Rennes open-data provider
func NewRennes() *RennesProvider {
	return &RennesProvider{
		baseURL: "https://data.rennesmetropole.fr/api/records/1.0/search/",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: newBreaker("rennes-opendata"),
	}
}

func (p *RennesProvider) Name() string { return "rennes" }

func (p *RennesProvider) Fallback() FallbackPolicy { return FallbackEmpty }

// recordsResponse is the common envelope of the records API. Field names
// vary per dataset; the superset is decoded and each method picks its own.
type recordsResponse struct {
	Records []struct {
		Fields struct {
			Titre     string `json:"titre"`
			DateDebut string `json:"date_debut"`
			NomRue    string `json:"nom_rue"`
			Nature    string `json:"nature"`
			Nom       string `json:"nom"`
			Libre     int    `json:"libre"`
			Total     int    `json:"total"`
		} `json:"fields"`
	} `json:"records"`
}

func (p *RennesProvider) search(ctx context.Context, dataset string, rows int) (recordsResponse, error) {
	values := url.Values{}
	values.Set("dataset", dataset)
	values.Set("rows", strconv.Itoa(rows))

	var payload recordsResponse
	err := fetchJSON(ctx, p.httpClient, p.breaker, p.baseURL+"?"+values.Encode(), &payload)
	return payload, err
}

// Events fetches the cultural agenda dataset.
func (p *RennesProvider) Events(ctx context.Context) []domain.EventRecord {
	payload, err := p.search(ctx, "agenda-culturel-rennes-metropole", 10)
	if err != nil {
		log.Printf("rennes: events fetch failed: %v", err)
		return []domain.EventRecord{}
	}

	events := make([]domain.EventRecord, 0, len(payload.Records))
	for _, r := range payload.Records {
		title := r.Fields.Titre
		if title == "" {
			title = "Sans titre"
		}
		events = append(events, domain.EventRecord{
			Title:  title,
			Date:   r.Fields.DateDebut,
			Source: "Rennes Open Data",
		})
	}
	return events
}

// Construction fetches the geotravaux dataset.
func (p *RennesProvider) Construction(ctx context.Context) []domain.ConstructionRecord {
	payload, err := p.search(ctx, "geotravaux", 10)
	if err != nil {
		log.Printf("rennes: construction fetch failed: %v", err)
		return []domain.ConstructionRecord{}
	}

	construction := make([]domain.ConstructionRecord, 0, len(payload.Records))
	for _, r := range payload.Records {
		location := r.Fields.NomRue
		if location == "" {
			location = "Lieu inconnu"
		}
		impact := r.Fields.Nature
		if impact == "" {
			impact = "Travaux"
		}
		construction = append(construction, domain.ConstructionRecord{
			Location: location,
			Impact:   impact,
			Source:   "Geotravaux Rennes",
		})
	}
	return construction
}

// Parking fetches live parking occupancy. Rennes has the capability, so the
// result is always a list; empty means the feed returned nothing or failed.
func (p *RennesProvider) Parking(ctx context.Context) []domain.ParkingRecord {
	payload, err := p.search(ctx, "parking-rennes-metropole-temps-reel", 20)
	if err != nil {
		log.Printf("rennes: parking fetch failed: %v", err)
		return []domain.ParkingRecord{}
	}

	parking := make([]domain.ParkingRecord, 0, len(payload.Records))
	for _, r := range payload.Records {
		name := r.Fields.Nom
		if name == "" {
			name = "Parking"
		}
		parking = append(parking, domain.ParkingRecord{
			Name:      name,
			Available: r.Fields.Libre,
			Total:     r.Fields.Total,
			Source:    "Rennes Parking Realtime",
		})
	}
	return parking
}
