package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yogendra-27-bhange/eventplanner/internal/models"
)

// UserStore defines the user data access the identity service consumes
type UserStore interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
}

// EventStore defines the event data access the services consume
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]models.Event, error)
	ListCreatedBy(ctx context.Context, userID string) ([]models.Event, error)
}

// RegistrationStore defines the registration data access the services consume
type RegistrationStore interface {
	CreateWithCount(ctx context.Context, reg *models.Registration) error
	Exists(ctx context.Context, eventID uuid.UUID, userID string) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]models.Registration, error)
}

// FeedbackStore defines the feedback data access the services consume
type FeedbackStore interface {
	Create(ctx context.Context, fb *models.Feedback) error
	Exists(ctx context.Context, eventID uuid.UUID, userID string) (bool, error)
	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Feedback, error)
}
