package repository

import (
	"context"

	"github.com/charerimana/agrisense/internal/domain"
)

// UsersRepository account lookups.
type UsersRepository interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByAccount(ctx context.Context, account string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
}

// FarmFilters optional list filters. Search matches farm name or location,
// case-insensitive.
type FarmFilters struct {
	Search string
}

// FarmsRepository farm + sensor persistence. A farm and its sensor are
// written together: UpsertFarm runs both writes in one transaction, and
// DeleteFarm cascades through notifications/readings/sensor explicitly.
type FarmsRepository interface {
	GetFarm(ctx context.Context, farmID string) (*domain.Farm, error)
	ListFarms(ctx context.Context, ownerID string, filters FarmFilters) ([]*domain.FarmWithSensor, error)
	FarmExists(ctx context.Context, ownerID, name, location, excludeFarmID string) (bool, error)
	UpsertFarm(ctx context.Context, farm *domain.Farm, minTemp, maxTemp float64) (*domain.FarmWithSensor, error)
	DeleteFarm(ctx context.Context, farmID string) error
}

// SensorContext a sensor with its farm and owning user, loaded in one query
// for the ingest pipeline.
type SensorContext struct {
	Sensor domain.Sensor
	Farm   domain.Farm
	Owner  domain.User
}

// SensorSeries a sensor with its full ordered reading history, for the
// dashboard aggregator.
type SensorSeries struct {
	Sensor   domain.Sensor
	FarmName string
	Readings []domain.SensorReading
}

// SensorsRepository sensor lookups and dashboard series queries.
type SensorsRepository interface {
	GetSensor(ctx context.Context, sensorID string) (*domain.Sensor, error)
	// GetSensorContext returns domain.ErrNotFound when the sensor is absent.
	GetSensorContext(ctx context.Context, sensorID string) (*SensorContext, error)
	// ListSensorSeries returns the owner's sensors (optionally one farm),
	// readings ordered by recorded_at ascending.
	ListSensorSeries(ctx context.Context, ownerID, farmID string) ([]*SensorSeries, error)
}

// ReadingsRepository append-only reading storage. The validity flag is
// updated exactly once, right after insert.
type ReadingsRepository interface {
	InsertReading(ctx context.Context, sensorID string, temperature float64) (*domain.SensorReading, error)
	SetReadingValidity(ctx context.Context, readingID int64, isValid bool) error
	ListReadings(ctx context.Context, sensorID string) ([]*domain.SensorReading, error)
	ListFarmReadings(ctx context.Context, farmID string) ([]*domain.SensorReading, error)
}

// NotificationsRepository append-only notification audit records.
type NotificationsRepository interface {
	CreateNotification(ctx context.Context, n *domain.Notification) error
	ListNotifications(ctx context.Context, userID string) ([]*domain.Notification, error)
}

// PreferencesRepository per-user notification preferences.
type PreferencesRepository interface {
	// GetPreference returns domain.ErrNotFound when the user has no row.
	GetPreference(ctx context.Context, userID string) (*domain.NotificationPreference, error)
	UpsertPreference(ctx context.Context, p *domain.NotificationPreference) error
}
