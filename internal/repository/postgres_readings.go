package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/charerimana/agrisense/internal/domain"
)

// PostgresReadingsRepository sensor_readings Repository implementation.
type PostgresReadingsRepository struct {
	db *sql.DB
}

func NewPostgresReadingsRepository(db *sql.DB) *PostgresReadingsRepository {
	return &PostgresReadingsRepository{db: db}
}

var _ ReadingsRepository = (*PostgresReadingsRepository)(nil)

// InsertReading appends a reading with a server-assigned timestamp.
// A dangling sensor reference surfaces as domain.ErrNotFound so the caller
// can reject the ingest as a client error.
func (r *PostgresReadingsRepository) InsertReading(ctx context.Context, sensorID string, temperature float64) (*domain.SensorReading, error) {
	if sensorID == "" {
		return nil, fmt.Errorf("sensor_id is required")
	}

	query := `
		INSERT INTO sensor_readings (sensor_id, temperature)
		VALUES ($1::uuid, $2)
		RETURNING id, sensor_id::text, temperature, recorded_at, is_valid
	`

	var rd domain.SensorReading
	err := r.db.QueryRowContext(ctx, query, sensorID, temperature).Scan(
		&rd.ID, &rd.SensorID, &rd.Temperature, &rd.RecordedAt, &rd.IsValid)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("sensor %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to insert reading: %w", err)
	}
	return &rd, nil
}

func (r *PostgresReadingsRepository) SetReadingValidity(ctx context.Context, readingID int64, isValid bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sensor_readings SET is_valid = $2 WHERE id = $1`, readingID, isValid)
	if err != nil {
		return fmt.Errorf("failed to update reading validity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("reading %w", domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresReadingsRepository) ListReadings(ctx context.Context, sensorID string) ([]*domain.SensorReading, error) {
	query := `
		SELECT id, sensor_id::text, temperature, recorded_at, is_valid
		FROM sensor_readings
		WHERE sensor_id = $1::uuid
		ORDER BY recorded_at ASC
	`
	return r.queryReadings(ctx, query, sensorID)
}

func (r *PostgresReadingsRepository) ListFarmReadings(ctx context.Context, farmID string) ([]*domain.SensorReading, error) {
	query := `
		SELECT sr.id, sr.sensor_id::text, sr.temperature, sr.recorded_at, sr.is_valid
		FROM sensor_readings sr
		JOIN sensors s ON sr.sensor_id = s.sensor_id
		WHERE s.farm_id = $1::uuid
		ORDER BY sr.recorded_at ASC
	`
	return r.queryReadings(ctx, query, farmID)
}

func (r *PostgresReadingsRepository) queryReadings(ctx context.Context, query string, arg interface{}) ([]*domain.SensorReading, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	defer rows.Close()

	readings := []*domain.SensorReading{}
	for rows.Next() {
		var rd domain.SensorReading
		if err := rows.Scan(&rd.ID, &rd.SensorID, &rd.Temperature, &rd.RecordedAt, &rd.IsValid); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, &rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	return readings, nil
}
