package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charerimana/agrisense/internal/domain"
)

// ResourceKind tags the resource kinds ownership can be resolved for.
// Each kind has its own owner-resolution query; the switch in ResolveOwner
// replaces attribute probing on arbitrary objects.
type ResourceKind int

const (
	ResourceFarm ResourceKind = iota
	ResourceSensor
	ResourceReading
	ResourceNotification
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceFarm:
		return "farm"
	case ResourceSensor:
		return "sensor"
	case ResourceReading:
		return "reading"
	case ResourceNotification:
		return "notification"
	default:
		return "unknown"
	}
}

// OwnerResolver resolves the owning user of a resource by kind and id.
type OwnerResolver struct {
	db *sql.DB
}

func NewOwnerResolver(db *sql.DB) *OwnerResolver {
	return &OwnerResolver{db: db}
}

// ResolveOwner returns the user id owning the resource, or
// domain.ErrNotFound when the resource does not exist.
func (r *OwnerResolver) ResolveOwner(ctx context.Context, kind ResourceKind, id string) (string, error) {
	var query string
	switch kind {
	case ResourceFarm:
		query = `SELECT owner_id::text FROM farms WHERE farm_id = $1::uuid`
	case ResourceSensor:
		query = `
			SELECT f.owner_id::text
			FROM sensors s JOIN farms f ON s.farm_id = f.farm_id
			WHERE s.sensor_id = $1::uuid`
	case ResourceReading:
		query = `
			SELECT f.owner_id::text
			FROM sensor_readings sr
			JOIN sensors s ON sr.sensor_id = s.sensor_id
			JOIN farms f ON s.farm_id = f.farm_id
			WHERE sr.id = $1::bigint`
	case ResourceNotification:
		query = `SELECT user_id::text FROM notifications WHERE id = $1::bigint`
	default:
		return "", fmt.Errorf("unknown resource kind %d", kind)
	}

	var ownerID string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("%s %w", kind, domain.ErrNotFound)
		}
		return "", fmt.Errorf("failed to resolve %s owner: %w", kind, err)
	}
	return ownerID, nil
}

// Authorize checks that user may act on the resource. Admins pass any check;
// everyone else must own the resource.
func (r *OwnerResolver) Authorize(ctx context.Context, user *domain.User, kind ResourceKind, id string) error {
	if user.IsAdmin() {
		return nil
	}
	ownerID, err := r.ResolveOwner(ctx, kind, id)
	if err != nil {
		return err
	}
	if ownerID != user.UserID {
		return fmt.Errorf("%s: %w", kind, domain.ErrForbidden)
	}
	return nil
}
