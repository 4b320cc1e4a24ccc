package postgres

import (
	"context"
	"sync"

	"github.com/flowpark/backend/internal/domain"
)

// MockRepository implements domain.AuditRepository for testing/demo mode.
// Records are kept in memory so tests can assert what was stored.
type MockRepository struct {
	mu           sync.Mutex
	aggregations []domain.AggregationRecord
	flows        []domain.GPSFlow
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// SaveAggregation records the entry in memory
func (r *MockRepository) SaveAggregation(ctx context.Context, rec domain.AggregationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aggregations = append(r.aggregations, rec)
	return nil
}

// SaveGPSFlow records the flow in memory
func (r *MockRepository) SaveGPSFlow(ctx context.Context, flow domain.GPSFlow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows = append(r.flows, flow)
	return nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}

// Aggregations returns a copy of the stored aggregation records
func (r *MockRepository) Aggregations() []domain.AggregationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AggregationRecord, len(r.aggregations))
	copy(out, r.aggregations)
	return out
}

// Flows returns a copy of the stored GPS flows
func (r *MockRepository) Flows() []domain.GPSFlow {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.GPSFlow, len(r.flows))
	copy(out, r.flows)
	return out
}
