package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowpark/backend/internal/domain"
)

// PostgresRepository implements domain.AuditRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// SaveAggregation appends an aggregation outcome to the history table
func (r *PostgresRepository) SaveAggregation(ctx context.Context, rec domain.AggregationRecord) error {
	query := `
		INSERT INTO aggregation_history (city, score, condition, timestamp)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, rec.City, rec.Score, string(rec.Condition), rec.Timestamp)
	if err != nil {
		return fmt.Errorf("postgres: failed to save aggregation record: %w", err)
	}

	return nil
}

// SaveGPSFlow appends an anonymized GPS sample
func (r *PostgresRepository) SaveGPSFlow(ctx context.Context, flow domain.GPSFlow) error {
	query := `
		INSERT INTO gps_flows (id, lat, lon, city, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, flow.ID, flow.Lat, flow.Lon, flow.City, flow.Timestamp)
	if err != nil {
		return fmt.Errorf("postgres: failed to save gps flow: %w", err)
	}

	return nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
