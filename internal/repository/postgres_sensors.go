package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charerimana/agrisense/internal/domain"
)

// PostgresSensorsRepository sensors Repository implementation.
type PostgresSensorsRepository struct {
	db *sql.DB
}

func NewPostgresSensorsRepository(db *sql.DB) *PostgresSensorsRepository {
	return &PostgresSensorsRepository{db: db}
}

var _ SensorsRepository = (*PostgresSensorsRepository)(nil)

func (r *PostgresSensorsRepository) GetSensor(ctx context.Context, sensorID string) (*domain.Sensor, error) {
	if sensorID == "" {
		return nil, fmt.Errorf("sensor_id is required")
	}

	query := `
		SELECT sensor_id::text, farm_id::text, sensor_type, min_temp, max_temp
		FROM sensors
		WHERE sensor_id = $1::uuid
	`

	var s domain.Sensor
	err := r.db.QueryRowContext(ctx, query, sensorID).Scan(
		&s.SensorID, &s.FarmID, &s.SensorType, &s.MinTemp, &s.MaxTemp)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sensor %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get sensor: %w", err)
	}
	return &s, nil
}

// GetSensorContext loads the sensor with its farm and owner in one query.
// The ingest pipeline needs all three for the alert decision.
func (r *PostgresSensorsRepository) GetSensorContext(ctx context.Context, sensorID string) (*SensorContext, error) {
	if sensorID == "" {
		return nil, fmt.Errorf("sensor_id is required")
	}

	query := `
		SELECT
			s.sensor_id::text,
			s.farm_id::text,
			s.sensor_type,
			s.min_temp,
			s.max_temp,
			f.farm_id::text,
			f.owner_id::text,
			f.name,
			f.location,
			u.user_id::text,
			u.account,
			COALESCE(u.email, '') as email,
			u.role
		FROM sensors s
		JOIN farms f ON s.farm_id = f.farm_id
		JOIN users u ON f.owner_id = u.user_id
		WHERE s.sensor_id = $1::uuid
	`

	var sc SensorContext
	err := r.db.QueryRowContext(ctx, query, sensorID).Scan(
		&sc.Sensor.SensorID, &sc.Sensor.FarmID, &sc.Sensor.SensorType,
		&sc.Sensor.MinTemp, &sc.Sensor.MaxTemp,
		&sc.Farm.FarmID, &sc.Farm.OwnerID, &sc.Farm.Name, &sc.Farm.Location,
		&sc.Owner.UserID, &sc.Owner.Account, &sc.Owner.Email, &sc.Owner.Role,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sensor %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get sensor context: %w", err)
	}
	return &sc, nil
}

// ListSensorSeries returns the owner's sensors with their full reading
// history ordered by recorded_at ascending, optionally limited to one farm.
func (r *PostgresSensorsRepository) ListSensorSeries(ctx context.Context, ownerID, farmID string) ([]*SensorSeries, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner_id is required")
	}

	query := `
		SELECT
			s.sensor_id::text,
			s.farm_id::text,
			s.sensor_type,
			s.min_temp,
			s.max_temp,
			f.name
		FROM sensors s
		JOIN farms f ON s.farm_id = f.farm_id
		WHERE f.owner_id = $1::uuid
	`
	args := []interface{}{ownerID}
	if farmID != "" {
		query += " AND f.farm_id = $2::uuid"
		args = append(args, farmID)
	}
	query += " ORDER BY f.created_at, s.sensor_id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sensors: %w", err)
	}
	defer rows.Close()

	series := []*SensorSeries{}
	for rows.Next() {
		var ss SensorSeries
		if err := rows.Scan(&ss.Sensor.SensorID, &ss.Sensor.FarmID, &ss.Sensor.SensorType,
			&ss.Sensor.MinTemp, &ss.Sensor.MaxTemp, &ss.FarmName); err != nil {
			return nil, fmt.Errorf("failed to scan sensor: %w", err)
		}
		series = append(series, &ss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sensors: %w", err)
	}

	for _, ss := range series {
		readings, err := r.listReadingsAsc(ctx, ss.Sensor.SensorID)
		if err != nil {
			return nil, err
		}
		ss.Readings = readings
	}
	return series, nil
}

func (r *PostgresSensorsRepository) listReadingsAsc(ctx context.Context, sensorID string) ([]domain.SensorReading, error) {
	query := `
		SELECT id, sensor_id::text, temperature, recorded_at, is_valid
		FROM sensor_readings
		WHERE sensor_id = $1::uuid
		ORDER BY recorded_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sensorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	defer rows.Close()

	readings := []domain.SensorReading{}
	for rows.Next() {
		var rd domain.SensorReading
		if err := rows.Scan(&rd.ID, &rd.SensorID, &rd.Temperature, &rd.RecordedAt, &rd.IsValid); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	return readings, nil
}
