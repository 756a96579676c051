package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charerimana/agrisense/internal/domain"
)

// PostgresNotificationsRepository notifications Repository implementation.
type PostgresNotificationsRepository struct {
	db *sql.DB
}

func NewPostgresNotificationsRepository(db *sql.DB) *PostgresNotificationsRepository {
	return &PostgresNotificationsRepository{db: db}
}

var _ NotificationsRepository = (*PostgresNotificationsRepository)(nil)

func (r *PostgresNotificationsRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (user_id, reading_id, message, notification_type)
		VALUES ($1::uuid, $2, $3, $4)
		RETURNING id, sent_at
	`

	err := r.db.QueryRowContext(ctx, query, n.UserID, n.ReadingID, n.Message, n.Type).
		Scan(&n.ID, &n.SentAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationsRepository) ListNotifications(ctx context.Context, userID string) ([]*domain.Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	query := `
		SELECT id, user_id::text, reading_id, message, notification_type, sent_at
		FROM notifications
		WHERE user_id = $1::uuid
		ORDER BY sent_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ReadingID, &n.Message, &n.Type, &n.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
