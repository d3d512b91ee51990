package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UserRole is the role assigned to a user account
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// EventStatus is the lifecycle status of an event
type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusFeatured  EventStatus = "featured"
	EventStatusPast      EventStatus = "past"
)

// RegistrableStatuses are the statuses in which an event accepts registrations
var RegistrableStatuses = []EventStatus{EventStatusActive, EventStatusFeatured}

// EventCategories are the categories an event can be filed under
var EventCategories = []string{
	"Music",
	"Workshop",
	"Conference",
	"Social",
	"Sports",
	"Art & Culture",
	"Food & Drink",
	"Tech",
	"Health & Wellness",
	"Other",
}

// User represents a user account. The ID is the user's email address.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Email     string    `gorm:"not null" json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      UserRole  `gorm:"not null;default:user" json:"role"`
}

// Event represents a schedulable activity users can register for.
// RegisteredCount is a materialized counter kept consistent with the
// registrations table only through RegistrationRepository.CreateWithCount.
type Event struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
	Title           string      `gorm:"not null" json:"title"`
	Date            time.Time   `gorm:"not null" json:"date"`
	Time            string      `gorm:"not null" json:"time"`
	Location        string      `gorm:"not null" json:"location"`
	Description     string      `json:"description"`
	Category        string      `gorm:"not null" json:"category"`
	MaxRegistrants  *int        `json:"max_registrants,omitempty"`
	RegisteredCount int         `gorm:"not null;default:0" json:"registered_count"`
	Status          EventStatus `gorm:"not null;default:active" json:"status"`
	CreatedBy       string      `gorm:"not null;index" json:"created_by"`
	ImageURL        string      `json:"image_url,omitempty"`
	Registrations   []Registration `gorm:"foreignKey:EventID" json:"-"`
	Feedback        []Feedback     `gorm:"foreignKey:EventID" json:"-"`
}

// Registrable reports whether the event currently accepts registrations.
func (e *Event) Registrable() bool {
	for _, s := range RegistrableStatuses {
		if e.Status == s {
			return true
		}
	}
	return false
}

// Full reports whether the event has reached its registration cap.
func (e *Event) Full() bool {
	return e.MaxRegistrants != nil && e.RegisteredCount >= *e.MaxRegistrants
}

// Registration links one user to one event they intend to attend.
// Rows are created only through the registration service and never updated;
// there is no unregister flow.
type Registration struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UserID           string    `gorm:"not null;uniqueIndex:idx_registrations_user_event" json:"user_id"`
	EventID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_registrations_user_event" json:"event_id"`
	RegistrationDate time.Time `gorm:"not null" json:"registration_date"`
}

// Feedback is a post-event rating a registered attendee may submit once.
type Feedback struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	EventID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_user_event" json:"event_id"`
	UserID      string    `gorm:"not null;uniqueIndex:idx_feedback_user_event" json:"user_id"`
	Rating      int       `gorm:"not null" json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
}

// TableName overrides the default pluralization for Feedback
func (Feedback) TableName() string {
	return "feedback"
}

// SetupModels configures GORM models and runs migrations
func SetupModels(db *gorm.DB) error {
	// Apply all migrations
	err := db.AutoMigrate(
		&User{},
		&Event{},
		&Registration{},
		&Feedback{},
	)

	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}

	return nil
}
