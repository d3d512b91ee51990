package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/yogendra-27-bhange/eventplanner/internal/models"
)

// RegistrationRepository provides access to registration records
type RegistrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// CreateWithCount inserts the registration row and increments the event's
// registered_count in a single database transaction. The increment is guarded:
// the UPDATE re-checks status and capacity in its WHERE clause, so two
// registrations racing for the last seat serialize on the event row and only
// one commits. Any failure rolls back both writes.
//
// Returns ErrNotFound when the event does not exist, ErrPreconditionFailed
// when its status does not accept registrations, ErrConflict when the event is
// full or the user is already registered.
func (r *RegistrationRepository) CreateWithCount(ctx context.Context, reg *models.Registration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Event{}).
			Where("id = ? AND status IN ? AND (max_registrants IS NULL OR registered_count < max_registrants)",
				reg.EventID, models.RegistrableStatuses).
			UpdateColumn("registered_count", gorm.Expr("registered_count + 1"))
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to increment registered count")
		}

		if result.RowsAffected == 0 {
			// The guard rejected the increment; work out which invariant held.
			var event models.Event
			err := tx.First(&event, "id = ?", reg.EventID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return errors.Wrap(err, "failed to get event")
			}
			if !event.Registrable() {
				return ErrPreconditionFailed
			}
			return ErrConflict
		}

		if err := tx.Create(reg).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Duplicate (user, event) pair; the increment rolls back with us.
				return ErrConflict
			}
			return errors.Wrap(err, "failed to create registration")
		}

		return nil
	})
}

// Exists checks whether a registration exists for the (user, event) pair
func (r *RegistrationRepository) Exists(ctx context.Context, eventID uuid.UUID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check registration")
	}
	return count > 0, nil
}

// ListForUser returns all registrations belonging to the user, newest first
func (r *RegistrationRepository) ListForUser(ctx context.Context, userID string) ([]models.Registration, error) {
	var regs []models.Registration
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("registration_date desc").
		Find(&regs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list registrations for user")
	}
	return regs, nil
}

// CountForEvent returns the number of registration rows for the event. Used
// for consistency checks against the materialized registered_count.
func (r *RegistrationRepository) CountForEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count registrations for event")
	}
	return count, nil
}
