package provider

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"

	"github.com/flowpark/backend/internal/domain"
)

const maxScrapedItems = 10

// LavalProvider scrapes the Laval tourism agenda and the city roadworks page.
// Laval has no live parking feed, so Parking always returns nil.
type LavalProvider struct {
	tourismURL string
	villeURL   string
	httpClient *http.Client

	tourismCB *gobreaker.CircuitBreaker
	villeCB   *gobreaker.CircuitBreaker
}

// NewLaval creates the Laval scraping provider
func NewLaval() *LavalProvider {
	return &LavalProvider{
		tourismURL: "https://www.laval-tourisme.com/agenda/",
		villeURL:   "https://www.laval.fr/travaux-et-circulation",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		tourismCB: newBreaker("laval-tourisme"),
		villeCB:   newBreaker("laval-ville"),
	}
}

func (p *LavalProvider) Name() string { return "laval" }

func (p *LavalProvider) Fallback() FallbackPolicy { return FallbackPlaceholder }

// Events scrapes the tourism agenda, up to 10 items. On failure it serves
// placeholder records per the provider's fallback policy.
func (p *LavalProvider) Events(ctx context.Context) []domain.EventRecord {
	doc, err := fetchDocument(ctx, p.httpClient, p.tourismCB, p.tourismURL)
	if err != nil {
		log.Printf("laval: failed to scrape events: %v", err)
		return p.placeholderEvents()
	}

	var events []domain.EventRecord
	doc.Find("article.item-agenda").EachWithBreak(func(i int, item *goquery.Selection) bool {
		if i >= maxScrapedItems {
			return false
		}

		title := strings.TrimSpace(item.Find("h2").First().Text())
		if title == "" {
			title = "Événement"
		}
		date := strings.TrimSpace(item.Find("time").First().Text())

		events = append(events, domain.EventRecord{
			Title:  title,
			Date:   date,
			Source: "Laval Tourisme",
		})
		return true
	})

	if events == nil {
		// Page structure changed or no items; same fallback as a fetch error.
		return p.placeholderEvents()
	}
	return events
}

// Construction scrapes the roadworks page of laval.fr.
func (p *LavalProvider) Construction(ctx context.Context) []domain.ConstructionRecord {
	doc, err := fetchDocument(ctx, p.httpClient, p.villeCB, p.villeURL)
	if err != nil {
		log.Printf("laval: failed to scrape construction: %v", err)
		return p.placeholderConstruction()
	}

	var construction []domain.ConstructionRecord
	doc.Find("div.travaux-item").EachWithBreak(func(i int, item *goquery.Selection) bool {
		if i >= maxScrapedItems {
			return false
		}

		location := strings.TrimSpace(item.Find("h3").First().Text())
		if location == "" {
			location = "Lieu inconnu"
		}
		impact := strings.TrimSpace(item.Find("p").First().Text())

		construction = append(construction, domain.ConstructionRecord{
			Location: location,
			Impact:   impact,
			Source:   "Mairie de Laval",
		})
		return true
	})

	if construction == nil {
		return p.placeholderConstruction()
	}
	return construction
}

// Parking returns nil: no live parking feed identified for Laval yet.
func (p *LavalProvider) Parking(ctx context.Context) []domain.ParkingRecord {
	return nil
}

func (p *LavalProvider) placeholderEvents() []domain.EventRecord {
	return []domain.EventRecord{
		{Title: "Marché Local", Date: "Samedi matin", Source: "Fallback"},
		{Title: "Concert au Théâtre", Date: "Vendredi soir", Source: "Fallback"},
	}
}

func (p *LavalProvider) placeholderConstruction() []domain.ConstructionRecord {
	return []domain.ConstructionRecord{
		{Location: "Centre-ville", Impact: "Circulation alternée", Source: "Fallback"},
	}
}
