package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flowpark/backend/internal/cache"
	"github.com/flowpark/backend/internal/domain"
	"github.com/flowpark/backend/internal/provider"
	"github.com/flowpark/backend/internal/scoring"
	"github.com/flowpark/backend/pkg/utils"
)

// WeatherSource provides the current weather for a city. It never fails;
// unreachable feeds degrade to an unknown reading.
type WeatherSource interface {
	Current(ctx context.Context, city string) domain.WeatherReading
}

// AggregationService orchestrates providers, weather, scoring and the cache
// into per-city urban snapshots, with best-effort audit logging.
type AggregationService struct {
	registry *provider.Registry
	weather  WeatherSource
	scoring  *scoring.Engine
	cache    *cache.SnapshotCache
	repo     domain.AuditRepository

	wgBg sync.WaitGroup // tracks background audit writes for graceful shutdown
}

// NewAggregationService creates a new aggregation service
func NewAggregationService(
	registry *provider.Registry,
	weather WeatherSource,
	engine *scoring.Engine,
	snapCache *cache.SnapshotCache,
	repo domain.AuditRepository,
) *AggregationService {
	return &AggregationService{
		registry: registry,
		weather:  weather,
		scoring:  engine,
		cache:    snapCache,
		repo:     repo,
	}
}

// WaitBackground blocks until all background audit goroutines complete.
// Call during graceful shutdown to avoid dropped writes.
func (s *AggregationService) WaitBackground() {
	s.wgBg.Wait()
}

// SupportedCities lists the cities the registry knows about.
func (s *AggregationService) SupportedCities() []string {
	return s.registry.SupportedCities()
}

// Aggregate returns the urban snapshot for a city, served from cache when
// fresh. A cache miss fans out to weather, events, construction and parking
// concurrently; none of those fetches can fail the aggregation. The only
// error surfaced is domain.ErrUnsupportedCity.
func (s *AggregationService) Aggregate(ctx context.Context, city string, now time.Time) (domain.UrbanSnapshot, error) {
	return s.aggregate(ctx, city, now, false)
}

// Refresh re-aggregates unconditionally, replacing any cached snapshot.
// Used by the warm-up scheduler.
func (s *AggregationService) Refresh(ctx context.Context, city string, now time.Time) (domain.UrbanSnapshot, error) {
	return s.aggregate(ctx, city, now, true)
}

func (s *AggregationService) aggregate(ctx context.Context, city string, now time.Time, skipCache bool) (domain.UrbanSnapshot, error) {
	city = strings.ToLower(city)

	if !skipCache {
		if snapshot, ok := s.cache.Get(city, now); ok {
			return snapshot, nil
		}
	}

	prov, err := s.registry.Provider(city)
	if err != nil {
		return domain.UrbanSnapshot{}, err
	}

	var (
		wg           sync.WaitGroup
		reading      domain.WeatherReading
		events       []domain.EventRecord
		construction []domain.ConstructionRecord
		parking      []domain.ParkingRecord
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		reading = s.weather.Current(ctx, city)
	}()
	go func() {
		defer wg.Done()
		events = prov.Events(ctx)
	}()
	go func() {
		defer wg.Done()
		construction = prov.Construction(ctx)
	}()
	go func() {
		defer wg.Done()
		parking = prov.Parking(ctx)
	}()
	wg.Wait()

	score := s.scoring.Difficulty(city, reading.IsBad, len(events), now)

	snapshot := domain.UrbanSnapshot{
		City:              city,
		PredictionScore:   utils.RoundTo(score, 2),
		PredictionSummary: s.scoring.Summary(score),
		Weather:           reading,
		Events:            events,
		Construction:      construction,
		Parking:           parking,
		GeneratedAt:       now,
	}

	s.cache.Put(city, snapshot, now)

	// Fire-and-forget audit record; losing it never affects the response.
	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rec := domain.AggregationRecord{
			City:      city,
			Score:     snapshot.PredictionScore,
			Condition: reading.Condition,
			Timestamp: now,
		}
		if err := s.repo.SaveAggregation(bgCtx, rec); err != nil {
			log.Printf("Failed to save aggregation record: %v", err)
		}
	}()

	return snapshot, nil
}

// RecordGPSFlow stores an anonymized GPS sample. Whatever identity the
// caller presented is dropped here: the stored record only carries
// coordinates, city and timestamp. The write is best-effort.
func (s *AggregationService) RecordGPSFlow(lat, lon float64, city string) domain.GPSFlow {
	flow := domain.GPSFlow{
		ID:        uuid.NewString(),
		Lat:       lat,
		Lon:       lon,
		City:      strings.ToLower(city),
		Timestamp: time.Now().UTC(),
	}

	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.SaveGPSFlow(bgCtx, flow); err != nil {
			log.Printf("Failed to save GPS flow: %v", err)
		}
	}()

	return flow
}
