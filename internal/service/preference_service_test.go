package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/domain"
)

func TestGetPreference_DefaultsWhenUnset(t *testing.T) {
	svc := NewPreferenceService(newFakePrefsRepo(), zap.NewNop())
	userID := uuid.NewString()

	p, err := svc.GetPreference(context.Background(), userID)

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, userID, p.UserID)
	assert.True(t, p.AlertsEnabled)
	assert.True(t, p.EmailEnabled)
	assert.False(t, p.SMSEnabled)
	assert.Empty(t, p.PhoneNumber)
}

func TestUpdatePreference_PersistsAndReturns(t *testing.T) {
	prefs := newFakePrefsRepo()
	svc := NewPreferenceService(prefs, zap.NewNop())
	userID := uuid.NewString()

	p, err := svc.UpdatePreference(context.Background(), UpdatePreferenceRequest{
		UserID:        userID,
		AlertsEnabled: true,
		SMSEnabled:    true,
		PhoneNumber:   "0781234567",
	})

	require.NoError(t, err)
	assert.Equal(t, "0781234567", p.PhoneNumber, "the local form is accepted as-is")
	stored, err := svc.GetPreference(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, p, stored)
}

func TestUpdatePreference_SMSWithoutPhone(t *testing.T) {
	prefs := newFakePrefsRepo()
	svc := NewPreferenceService(prefs, zap.NewNop())
	userID := uuid.NewString()

	_, err := svc.UpdatePreference(context.Background(), UpdatePreferenceRequest{
		UserID:        userID,
		AlertsEnabled: true,
		SMSEnabled:    true,
	})

	require.Error(t, err)
	fe, ok := domain.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "phone_number")
	assert.Empty(t, prefs.prefs, "nothing written on validation failure")
}

func TestUpdatePreference_BadPhoneNumber(t *testing.T) {
	svc := NewPreferenceService(newFakePrefsRepo(), zap.NewNop())

	_, err := svc.UpdatePreference(context.Background(), UpdatePreferenceRequest{
		UserID:        uuid.NewString(),
		AlertsEnabled: true,
		SMSEnabled:    true,
		PhoneNumber:   "250712345678",
	})

	require.Error(t, err)
	fe, ok := domain.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "phone_number")
}
