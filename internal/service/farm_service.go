package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/domain"
	"github.com/charerimana/agrisense/internal/repository"
)

// FarmService farm management service interface.
type FarmService interface {
	ListFarms(ctx context.Context, req ListFarmsRequest) ([]*domain.FarmWithSensor, error)
	GetFarm(ctx context.Context, farmID string) (*domain.Farm, error)
	UpsertFarm(ctx context.Context, req UpsertFarmRequest) (*domain.FarmWithSensor, error)
	DeleteFarm(ctx context.Context, farmID string) error
}

type farmService struct {
	farmsRepo repository.FarmsRepository
	dashboard *Dashboard
	logger    *zap.Logger
}

// NewFarmService creates the farm service. dashboard may be nil; when set,
// cached dashboard payloads are invalidated on every bounds edit and delete,
// since health stats are computed against the sensor's current bounds.
func NewFarmService(farmsRepo repository.FarmsRepository, dashboard *Dashboard, logger *zap.Logger) FarmService {
	return &farmService{farmsRepo: farmsRepo, dashboard: dashboard, logger: logger}
}

// ListFarmsRequest owner scoping plus optional name/location search.
// Empty OwnerID lists every farm (admin).
type ListFarmsRequest struct {
	OwnerID string
	Search  string
}

// UpsertFarmRequest create (empty FarmID) or edit a farm together with its
// sensor bounds.
type UpsertFarmRequest struct {
	FarmID   string
	OwnerID  string
	Name     string
	Location string
	MinTemp  float64
	MaxTemp  float64
}

func (s *farmService) ListFarms(ctx context.Context, req ListFarmsRequest) ([]*domain.FarmWithSensor, error) {
	return s.farmsRepo.ListFarms(ctx, req.OwnerID, repository.FarmFilters{Search: req.Search})
}

func (s *farmService) GetFarm(ctx context.Context, farmID string) (*domain.Farm, error) {
	return s.farmsRepo.GetFarm(ctx, farmID)
}

// UpsertFarm validates and writes the farm + sensor pair atomically.
// Validation failures come back as domain.FieldErrors with nothing written.
func (s *farmService) UpsertFarm(ctx context.Context, req UpsertFarmRequest) (*domain.FarmWithSensor, error) {
	errs := domain.FieldErrors{}
	if req.Name == "" {
		errs["name"] = "This field is required."
	}
	if !domain.ValidDistrict(req.Location) {
		errs["location"] = "Select a valid district."
	}
	if len(errs) > 0 {
		return nil, errs
	}

	duplicate, err := s.farmsRepo.FarmExists(ctx, req.OwnerID, req.Name, req.Location, req.FarmID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, domain.FieldErrors{"name": "You already have a farm with this name in this district."}
	}

	farm := &domain.Farm{
		FarmID:   req.FarmID,
		OwnerID:  req.OwnerID,
		Name:     req.Name,
		Location: req.Location,
	}
	result, err := s.farmsRepo.UpsertFarm(ctx, farm, req.MinTemp, req.MaxTemp)
	if err != nil {
		return nil, err
	}

	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx, result.OwnerID)
	}

	s.logger.Info("Farm saved",
		zap.String("farm_id", result.FarmID),
		zap.String("owner_id", result.OwnerID),
		zap.String("location", result.Location),
	)
	return result, nil
}

func (s *farmService) DeleteFarm(ctx context.Context, farmID string) error {
	farm, err := s.farmsRepo.GetFarm(ctx, farmID)
	if err != nil {
		return err
	}
	if err := s.farmsRepo.DeleteFarm(ctx, farmID); err != nil {
		return err
	}
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx, farm.OwnerID)
	}
	s.logger.Info("Farm deleted", zap.String("farm_id", farmID))
	return nil
}
