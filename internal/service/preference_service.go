package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/domain"
	"github.com/charerimana/agrisense/internal/repository"
)

// PreferenceService notification preference management.
type PreferenceService interface {
	// GetPreference returns the stored preference, or the defaults when the
	// user has none yet.
	GetPreference(ctx context.Context, userID string) (*domain.NotificationPreference, error)
	UpdatePreference(ctx context.Context, req UpdatePreferenceRequest) (*domain.NotificationPreference, error)
}

type preferenceService struct {
	prefsRepo repository.PreferencesRepository
	logger    *zap.Logger
}

func NewPreferenceService(prefsRepo repository.PreferencesRepository, logger *zap.Logger) PreferenceService {
	return &preferenceService{prefsRepo: prefsRepo, logger: logger}
}

type UpdatePreferenceRequest struct {
	UserID        string
	AlertsEnabled bool
	EmailEnabled  bool
	SMSEnabled    bool
	PhoneNumber   string
}

func (s *preferenceService) GetPreference(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	prefs, err := s.prefsRepo.GetPreference(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DefaultPreference(userID), nil
		}
		return nil, err
	}
	return prefs, nil
}

// UpdatePreference validates and upserts. Enabling SMS without a valid
// Rwandan mobile number is rejected with a field error; nothing is written.
func (s *preferenceService) UpdatePreference(ctx context.Context, req UpdatePreferenceRequest) (*domain.NotificationPreference, error) {
	prefs := &domain.NotificationPreference{
		UserID:        req.UserID,
		AlertsEnabled: req.AlertsEnabled,
		EmailEnabled:  req.EmailEnabled,
		SMSEnabled:    req.SMSEnabled,
		PhoneNumber:   req.PhoneNumber,
	}
	if errs := prefs.Validate(); errs != nil {
		return nil, errs
	}

	if err := s.prefsRepo.UpsertPreference(ctx, prefs); err != nil {
		return nil, err
	}

	s.logger.Info("Notification preference updated",
		zap.String("user_id", req.UserID),
		zap.Bool("alerts_enabled", req.AlertsEnabled),
		zap.Bool("email_enabled", req.EmailEnabled),
		zap.Bool("sms_enabled", req.SMSEnabled),
	)
	return prefs, nil
}
