package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charerimana/agrisense/internal/domain"
)

// PostgresPreferencesRepository notification_preferences Repository
// implementation.
type PostgresPreferencesRepository struct {
	db *sql.DB
}

func NewPostgresPreferencesRepository(db *sql.DB) *PostgresPreferencesRepository {
	return &PostgresPreferencesRepository{db: db}
}

var _ PreferencesRepository = (*PostgresPreferencesRepository)(nil)

func (r *PostgresPreferencesRepository) GetPreference(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	query := `
		SELECT user_id::text, alerts_enabled, email_enabled, sms_enabled,
		       COALESCE(phone_number, '') as phone_number
		FROM notification_preferences
		WHERE user_id = $1::uuid
	`

	var p domain.NotificationPreference
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.AlertsEnabled, &p.EmailEnabled, &p.SMSEnabled, &p.PhoneNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("notification preference %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	return &p, nil
}

func (r *PostgresPreferencesRepository) UpsertPreference(ctx context.Context, p *domain.NotificationPreference) error {
	query := `
		INSERT INTO notification_preferences (user_id, alerts_enabled, email_enabled, sms_enabled, phone_number)
		VALUES ($1::uuid, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET alerts_enabled = EXCLUDED.alerts_enabled,
		              email_enabled = EXCLUDED.email_enabled,
		              sms_enabled = EXCLUDED.sms_enabled,
		              phone_number = EXCLUDED.phone_number
	`

	_, err := r.db.ExecContext(ctx, query,
		p.UserID, p.AlertsEnabled, p.EmailEnabled, p.SMSEnabled, p.PhoneNumber)
	if err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}
	return nil
}
