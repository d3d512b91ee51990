package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/yogendra-27-bhange/eventplanner/internal/models"
	"github.com/yogendra-27-bhange/eventplanner/internal/repositories"
	"github.com/yogendra-27-bhange/eventplanner/internal/session"
)

// IdentityService resolves sessions to users and creates user records on
// first login. The session store is passed in explicitly; the service owns no
// global state.
type IdentityService struct {
	users      UserStore
	sessions   session.Store
	adminEmail string
}

// NewIdentityService creates a new identity service. adminEmail is the one
// reserved identifier that is granted the admin role on account creation.
func NewIdentityService(users UserStore, sessions session.Store, adminEmail string) *IdentityService {
	return &IdentityService{
		users:      users,
		sessions:   sessions,
		adminEmail: adminEmail,
	}
}

// roleFor computes the role for a new account. Only the reserved identifier
// maps to admin; an explicit role store is a known gap in this trust model.
func (s *IdentityService) roleFor(identifier string) models.UserRole {
	if identifier == s.adminEmail {
		return models.RoleAdmin
	}
	return models.RoleUser
}

// ResolveOrCreate looks up a user by identifier, creating the account on
// first login. The store write is create-if-absent, so concurrent duplicate
// logins persist exactly one record and never overwrite an existing row. The
// user is persisted before the session pointer moves.
func (s *IdentityService) ResolveOrCreate(ctx context.Context, identifier, displayName string) (*models.User, error) {
	user, err := s.users.Get(ctx, identifier)
	if err == nil {
		if err := s.sessions.Set(ctx, user.ID); err != nil {
			return nil, errors.Wrap(err, "failed to update session")
		}
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if displayName == "" {
		displayName = localPart(identifier)
	}

	newUser := &models.User{
		ID:    identifier,
		Email: identifier,
		Name:  displayName,
		Role:  s.roleFor(identifier),
	}

	created, err := s.users.CreateIfAbsent(ctx, newUser)
	if err != nil {
		return nil, err
	}
	if !created {
		// A concurrent login won the race; take its record as-is.
		newUser, err = s.users.Get(ctx, identifier)
		if err != nil {
			return nil, err
		}
	} else {
		log.Info().
			Str("user_id", newUser.ID).
			Str("role", string(newUser.Role)).
			Msg("User created on first login")
	}

	if err := s.sessions.Set(ctx, newUser.ID); err != nil {
		return nil, errors.Wrap(err, "failed to update session")
	}

	return newUser, nil
}

// Register creates a new user account, failing when the identifier is taken
func (s *IdentityService) Register(ctx context.Context, identifier, displayName string) (*models.User, error) {
	user := &models.User{
		ID:    identifier,
		Email: identifier,
		Name:  displayName,
		Role:  s.roleFor(identifier),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("User registered")

	if err := s.sessions.Set(ctx, user.ID); err != nil {
		return nil, errors.Wrap(err, "failed to update session")
	}

	return user, nil
}

// CurrentSession resolves the session slot to a user. A session pointing at a
// user that no longer exists is cleared and reported as no session.
func (s *IdentityService) CurrentSession(ctx context.Context) (*models.User, error) {
	userID, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read session")
	}
	if userID == "" {
		return nil, nil
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Stale session; heal it.
			if clearErr := s.sessions.Clear(ctx); clearErr != nil {
				log.Warn().Err(clearErr).Msg("Failed to clear stale session")
			}
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// EndSession clears the session slot
func (s *IdentityService) EndSession(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// GetUser fetches a user by identifier without touching the session
func (s *IdentityService) GetUser(ctx context.Context, identifier string) (*models.User, error) {
	return s.users.Get(ctx, identifier)
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
