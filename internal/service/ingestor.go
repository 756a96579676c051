package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/domain"
	"github.com/charerimana/agrisense/internal/repository"
)

// Ingestor the reading ingestion pipeline: persist, validate against the
// sensor's bounds, alert on out-of-range. Everything runs synchronously in
// the request scope.
type Ingestor struct {
	sensorsRepo  repository.SensorsRepository
	readingsRepo repository.ReadingsRepository
	dispatcher   *AlertDispatcher
	dashboard    *Dashboard
	logger       *zap.Logger
}

func NewIngestor(
	sensorsRepo repository.SensorsRepository,
	readingsRepo repository.ReadingsRepository,
	dispatcher *AlertDispatcher,
	dashboard *Dashboard,
	logger *zap.Logger,
) *Ingestor {
	return &Ingestor{
		sensorsRepo:  sensorsRepo,
		readingsRepo: readingsRepo,
		dispatcher:   dispatcher,
		dashboard:    dashboard,
		logger:       logger,
	}
}

// Ingest persists one reading and runs the validation/alert pipeline.
// Any temperature value is accepted; out-of-bounds readings are flagged
// invalid, never rejected. An unknown sensor returns domain.ErrNotFound with
// nothing written.
//
// The validity flag is persisted before the alert decision, and the
// dispatcher runs at most once per reading. Dispatch failures are logged and
// do not undo the already-persisted reading.
func (i *Ingestor) Ingest(ctx context.Context, sensorID string, temperature float64) (*domain.SensorReading, error) {
	sc, err := i.sensorsRepo.GetSensorContext(ctx, sensorID)
	if err != nil {
		return nil, err
	}

	reading, err := i.readingsRepo.InsertReading(ctx, sensorID, temperature)
	if err != nil {
		return nil, err
	}

	isValid := sc.Sensor.InRange(temperature)
	if err := i.readingsRepo.SetReadingValidity(ctx, reading.ID, isValid); err != nil {
		return nil, err
	}
	reading.IsValid = isValid

	if !isValid {
		if _, err := i.dispatcher.Dispatch(ctx, &sc.Owner, reading, &sc.Sensor, sc.Farm.Name); err != nil {
			i.logger.Error("Failed to dispatch alert",
				zap.Int64("reading_id", reading.ID),
				zap.String("sensor_id", sensorID),
				zap.Error(err),
			)
		}
	}

	if i.dashboard != nil {
		i.dashboard.Invalidate(ctx, sc.Farm.OwnerID)
	}

	return reading, nil
}
