package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"
)

// newBreaker creates a circuit breaker for one upstream. An open breaker is
// treated like any other fetch failure by the caller, so a dead upstream
// trips fast instead of burning a timeout per request.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// fetchJSON performs a GET through the breaker and decodes the body into out.
func fetchJSON(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, url string, out interface{}) error {
	_, err := cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		return nil, json.NewDecoder(resp.Body).Decode(out)
	})
	return err
}

// fetchDocument performs a GET through the breaker and parses the body as HTML.
func fetchDocument(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, url string) (*goquery.Document, error) {
	doc, err := cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		return goquery.NewDocumentFromReader(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return doc.(*goquery.Document), nil
}
