package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/yogendra-27-bhange/eventplanner/internal/models"
)

// FeedbackRepository provides access to feedback records
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create persists a new feedback row. The unique (user, event) index rejects
// a second submission for the same pair.
func (r *FeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	err := r.db.WithContext(ctx).Create(fb).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return errors.Wrap(err, "failed to create feedback")
	}
	return nil
}

// Exists checks whether feedback exists for the (user, event) pair
func (r *FeedbackRepository) Exists(ctx context.Context, eventID uuid.UUID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check feedback")
	}
	return count > 0, nil
}

// ListForEvent returns all feedback for the event, newest first
func (r *FeedbackRepository) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Feedback, error) {
	var feedback []models.Feedback
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("submitted_at desc").
		Find(&feedback).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list feedback for event")
	}
	return feedback, nil
}
