package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/flowpark/backend/internal/cache"
	"github.com/flowpark/backend/internal/domain"
	"github.com/flowpark/backend/internal/provider"
	"github.com/flowpark/backend/internal/repository/postgres"
	"github.com/flowpark/backend/internal/scoring"
	"github.com/flowpark/backend/internal/service"
)

type fakeProvider struct{}

func (f *fakeProvider) Name() string                      { return "rennes" }
func (f *fakeProvider) Fallback() provider.FallbackPolicy { return provider.FallbackEmpty }
func (f *fakeProvider) Events(ctx context.Context) []domain.EventRecord {
	return []domain.EventRecord{{Title: "Trans Musicales", Source: "test"}}
}
func (f *fakeProvider) Construction(ctx context.Context) []domain.ConstructionRecord {
	return []domain.ConstructionRecord{}
}
func (f *fakeProvider) Parking(ctx context.Context) []domain.ParkingRecord {
	return []domain.ParkingRecord{}
}

type fakeWeather struct{}

func (f *fakeWeather) Current(ctx context.Context, city string) domain.WeatherReading {
	return domain.WeatherReading{Condition: domain.ConditionGood}
}

// fakeVerifier accepts exactly one token.
type fakeVerifier struct {
	valid string
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	if token == f.valid {
		return &domain.Identity{UID: "user-42"}, nil
	}
	return nil, nil
}

func newTestApp(allowAnonymous bool) (*fiber.App, *service.AggregationService, *postgres.MockRepository) {
	repo := postgres.NewMockRepository()
	svc := service.NewAggregationService(
		provider.NewRegistry(&fakeProvider{}),
		&fakeWeather{},
		scoring.NewEngineWithJitter(func() float64 { return 0 }),
		cache.New(15*time.Minute),
		repo,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": true, "message": err.Error()})
		},
	})
	SetupRoutes(app, svc, repo, &fakeVerifier{valid: "good-token"}, allowAnonymous)
	return app, svc, repo
}

func TestRootEndpoint(t *testing.T) {
	app, _, _ := newTestApp(true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app, _, _ := newTestApp(true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
		Checks struct {
			AuditStore      string   `json:"audit_store"`
			CitiesSupported []string `json:"cities_supported"`
		} `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "ok" || body.Checks.AuditStore != "up" {
		t.Fatalf("unexpected health body: %+v", body)
	}
	if len(body.Checks.CitiesSupported) != 1 || body.Checks.CitiesSupported[0] != "rennes" {
		t.Fatalf("unexpected supported cities: %v", body.Checks.CitiesSupported)
	}
}

func TestAggregateEndpoint(t *testing.T) {
	app, _, _ := newTestApp(true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/aggregate/rennes", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var snapshot domain.UrbanSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	if snapshot.City != "rennes" || len(snapshot.Events) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestAggregateUnsupportedCityReturns404(t *testing.T) {
	app, _, _ := newTestApp(true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/aggregate/tours", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "non supportée") {
		t.Fatalf("expected unsupported-city message, got %s", body)
	}
}

func TestAggregateRequiresTokenWhenAnonymousDisabled(t *testing.T) {
	app, _, _ := newTestApp(false)

	// No Authorization header.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/aggregate/rennes", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	// Bad token.
	req := httptest.NewRequest(http.MethodGet, "/aggregate/rennes", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with invalid token, got %d", resp.StatusCode)
	}

	// Valid token.
	req = httptest.NewRequest(http.MethodGet, "/aggregate/rennes", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", resp.StatusCode)
	}
}

func TestGPSFlowMissingCoordinatesReturns400(t *testing.T) {
	app, _, _ := newTestApp(true)

	for _, body := range []string{
		`{"lon":-1.6,"city":"rennes"}`,
		`{"lat":48.1,"city":"rennes"}`,
		`{}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/gps-flow", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

// TestGPSFlowStoresAnonymizedRecord checks the acceptance status and that
// the stored record carries no user identifier, even for an authenticated
// caller.
func TestGPSFlowStoresAnonymizedRecord(t *testing.T) {
	app, svc, repo := newTestApp(true)

	req := httptest.NewRequest(http.MethodPost, "/gps-flow", strings.NewReader(`{"lat":48.1,"lon":-1.6,"city":"rennes"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	svc.WaitBackground()
	flows := repo.Flows()
	if len(flows) != 1 {
		t.Fatalf("expected 1 stored flow, got %d", len(flows))
	}
	if flows[0].Lat != 48.1 || flows[0].Lon != -1.6 || flows[0].City != "rennes" {
		t.Fatalf("unexpected stored flow: %+v", flows[0])
	}

	// The serialized record must contain no user identifier field.
	raw, err := json.Marshal(flows[0])
	if err != nil {
		t.Fatalf("failed to marshal flow: %v", err)
	}
	for _, forbidden := range []string{"uid", "user", "email"} {
		if strings.Contains(strings.ToLower(string(raw)), forbidden) {
			t.Fatalf("stored record leaks identity field %q: %s", forbidden, raw)
		}
	}
}

func TestGPSFlowZeroCoordinatesAccepted(t *testing.T) {
	// 0.0 is a legal coordinate; only a missing field is a validation error.
	app, _, _ := newTestApp(true)

	req := httptest.NewRequest(http.MethodPost, "/gps-flow", strings.NewReader(`{"lat":0,"lon":0}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for zero coordinates, got %d", resp.StatusCode)
	}
}
