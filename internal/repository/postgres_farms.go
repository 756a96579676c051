package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/charerimana/agrisense/internal/domain"
)

// isUniqueViolation reports a PostgreSQL unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// PostgresFarmsRepository farms Repository implementation.
type PostgresFarmsRepository struct {
	db *sql.DB
}

func NewPostgresFarmsRepository(db *sql.DB) *PostgresFarmsRepository {
	return &PostgresFarmsRepository{db: db}
}

var _ FarmsRepository = (*PostgresFarmsRepository)(nil)

func (r *PostgresFarmsRepository) GetFarm(ctx context.Context, farmID string) (*domain.Farm, error) {
	if farmID == "" {
		return nil, fmt.Errorf("farm_id is required")
	}

	query := `
		SELECT farm_id::text, owner_id::text, name, location
		FROM farms
		WHERE farm_id = $1::uuid
	`

	var f domain.Farm
	err := r.db.QueryRowContext(ctx, query, farmID).Scan(&f.FarmID, &f.OwnerID, &f.Name, &f.Location)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("farm %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get farm: %w", err)
	}
	return &f, nil
}

// ListFarms returns the owner's farms with their sensors, newest first.
// An empty ownerID lists all farms (admin view).
func (r *PostgresFarmsRepository) ListFarms(ctx context.Context, ownerID string, filters FarmFilters) ([]*domain.FarmWithSensor, error) {
	query := `
		SELECT
			f.farm_id::text,
			f.owner_id::text,
			f.name,
			f.location,
			s.sensor_id::text,
			s.sensor_type,
			s.min_temp,
			s.max_temp
		FROM farms f
		LEFT JOIN sensors s ON s.farm_id = f.farm_id
	`

	var where []string
	var args []interface{}
	argN := 1

	if ownerID != "" {
		where = append(where, fmt.Sprintf("f.owner_id = $%d::uuid", argN))
		args = append(args, ownerID)
		argN++
	}
	if filters.Search != "" {
		where = append(where, fmt.Sprintf("(f.name ILIKE $%d OR f.location ILIKE $%d)", argN, argN))
		args = append(args, "%"+filters.Search+"%")
		argN++
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY f.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	defer rows.Close()

	farms := []*domain.FarmWithSensor{}
	for rows.Next() {
		var f domain.FarmWithSensor
		var sensorID, sensorType sql.NullString
		var minTemp, maxTemp sql.NullFloat64
		if err := rows.Scan(&f.FarmID, &f.OwnerID, &f.Name, &f.Location,
			&sensorID, &sensorType, &minTemp, &maxTemp); err != nil {
			return nil, fmt.Errorf("failed to scan farm: %w", err)
		}
		if sensorID.Valid {
			f.Sensor = &domain.Sensor{
				SensorID:   sensorID.String,
				FarmID:     f.FarmID,
				SensorType: sensorType.String,
				MinTemp:    minTemp.Float64,
				MaxTemp:    maxTemp.Float64,
			}
		}
		farms = append(farms, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	return farms, nil
}

// FarmExists checks the (owner, name, location) uniqueness constraint.
// excludeFarmID skips the farm being edited.
func (r *PostgresFarmsRepository) FarmExists(ctx context.Context, ownerID, name, location, excludeFarmID string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM farms
		WHERE owner_id = $1::uuid AND name = $2 AND location = $3
	`
	args := []interface{}{ownerID, name, location}
	if excludeFarmID != "" {
		query += " AND farm_id <> $4::uuid"
		args = append(args, excludeFarmID)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check farm uniqueness: %w", err)
	}
	return count > 0, nil
}

// UpsertFarm writes the farm row and its sensor bounds in a single
// transaction so a failure between the two writes never leaves a farm
// without a matching sensor.
func (r *PostgresFarmsRepository) UpsertFarm(ctx context.Context, farm *domain.Farm, minTemp, maxTemp float64) (*domain.FarmWithSensor, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if farm.FarmID == "" {
		farm.FarmID = uuid.NewString()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO farms (farm_id, owner_id, name, location) VALUES ($1::uuid, $2::uuid, $3, $4)`,
			farm.FarmID, farm.OwnerID, farm.Name, farm.Location)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE farms SET name = $2, location = $3 WHERE farm_id = $1::uuid`,
			farm.FarmID, farm.Name, farm.Location)
	}
	if err != nil {
		// The farms unique index on (owner_id, name, location) backstops the
		// service-level pre-check against concurrent creates of the same triple.
		if isUniqueViolation(err) {
			return nil, domain.FieldErrors{"name": "You already have a farm with this name in this district."}
		}
		return nil, fmt.Errorf("failed to save farm: %w", err)
	}

	sensor := &domain.Sensor{
		FarmID:     farm.FarmID,
		SensorType: domain.SensorTypeTemp,
		MinTemp:    minTemp,
		MaxTemp:    maxTemp,
	}

	// One sensor per farm: insert or refresh the bounds in place.
	var sensorID string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO sensors (sensor_id, farm_id, sensor_type, min_temp, max_temp)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5)
		ON CONFLICT (farm_id)
		DO UPDATE SET sensor_type = EXCLUDED.sensor_type,
		              min_temp = EXCLUDED.min_temp,
		              max_temp = EXCLUDED.max_temp
		RETURNING sensor_id::text
	`, uuid.NewString(), farm.FarmID, sensor.SensorType, sensor.MinTemp, sensor.MaxTemp).Scan(&sensorID)
	if err != nil {
		return nil, fmt.Errorf("failed to save sensor: %w", err)
	}
	sensor.SensorID = sensorID

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit farm upsert: %w", err)
	}

	return &domain.FarmWithSensor{Farm: *farm, Sensor: sensor}, nil
}

// DeleteFarm removes the farm and everything hanging off it. The cascade is
// explicit rather than relying on FK triggers: notifications, readings,
// sensor, then the farm, all in one transaction.
func (r *PostgresFarmsRepository) DeleteFarm(ctx context.Context, farmID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM notifications
		WHERE reading_id IN (
			SELECT sr.id FROM sensor_readings sr
			JOIN sensors s ON sr.sensor_id = s.sensor_id
			WHERE s.farm_id = $1::uuid
		)
	`, farmID)
	if err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM sensor_readings
		WHERE sensor_id IN (SELECT sensor_id FROM sensors WHERE farm_id = $1::uuid)
	`, farmID)
	if err != nil {
		return fmt.Errorf("failed to delete readings: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM sensors WHERE farm_id = $1::uuid`, farmID); err != nil {
		return fmt.Errorf("failed to delete sensor: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM farms WHERE farm_id = $1::uuid`, farmID)
	if err != nil {
		return fmt.Errorf("failed to delete farm: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("farm %w", domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit farm delete: %w", err)
	}
	return nil
}
