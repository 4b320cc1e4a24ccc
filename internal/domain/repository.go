package domain

import (
	"context"
	"time"
)

// AggregationRecord is the audit trail entry written after each fresh
// aggregation. Best-effort: losing one is acceptable.
type AggregationRecord struct {
	City      string    `json:"city"`
	Score     float64   `json:"score"`
	Condition Condition `json:"condition"`
	Timestamp time.Time `json:"timestamp"`
}

// GPSFlow is an anonymized GPS sample. It deliberately carries no user
// identifier: anonymization happens before this struct is built, not after.
type GPSFlow struct {
	ID        string    `json:"id"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	City      string    `json:"city"`
	Timestamp time.Time `json:"timestamp"`
}

// AuditRepository defines the interface for the append-only audit store.
// This follows the Dependency Inversion Principle - domain defines the interface
type AuditRepository interface {
	// SaveAggregation appends one aggregation outcome
	SaveAggregation(ctx context.Context, rec AggregationRecord) error

	// SaveGPSFlow appends one anonymized GPS sample
	SaveGPSFlow(ctx context.Context, flow GPSFlow) error

	// Health checks store connectivity
	Health(ctx context.Context) error
}
