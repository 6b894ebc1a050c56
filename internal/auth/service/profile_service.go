package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/validator"
	autherror "github.com/AnthoniusHendriyanto/realm-auth/internal/errors"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/logging"
)

// ProfileService reads and updates the profile of an already authorized
// identity.
type ProfileService struct {
	repo      domain.UserRepository
	validator *validator.ProfileValidator
	logger    logging.Logger
}

func NewProfileService(repo domain.UserRepository, v *validator.ProfileValidator, logger logging.Logger) *ProfileService {
	return &ProfileService{
		repo:      repo,
		validator: v,
		logger:    logger.With("component", "profile"),
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, identity domain.Identity) (*dto.UserOutput, error) {
	user, err := s.repo.GetByRealmAndUsername(ctx, identity.Realm, identity.Username)
	if err != nil {
		if errors.Is(err, autherror.ErrNotFound) {
			return nil, autherror.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return dto.NewUserOutput(user), nil
}

// UpdateProfile validates the whole payload before touching the store. An
// invalid payload or a payload naming another user leaves the record as is.
func (s *ProfileService) UpdateProfile(ctx context.Context, identity domain.Identity, input dto.ProfileInput) (*dto.UserOutput, error) {
	if err := s.validator.Validate(input).Err(); err != nil {
		return nil, err
	}

	if !targetsIdentity(identity, input) {
		s.logger.Warn(ctx, "profile update for another subject rejected",
			"realm", identity.Realm, "username", identity.Username,
			"target_realm", input.Realm, "target_username", input.Username)
		return nil, autherror.ErrForbidden
	}

	user, err := s.repo.UpdateProfile(ctx, identity.Realm, identity.Username, input.Profile())
	if err != nil {
		if errors.Is(err, autherror.ErrNotFound) {
			return nil, autherror.ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info(ctx, "profile updated", "realm", identity.Realm, "username", identity.Username)
	return dto.NewUserOutput(user), nil
}

// targetsIdentity treats absent realm/username in the payload as "myself".
func targetsIdentity(identity domain.Identity, input dto.ProfileInput) bool {
	realm, username := input.Realm, input.Username
	if realm == "" {
		realm = identity.Realm
	}
	if username == "" {
		username = identity.Username
	}
	return identity.Owns(realm, username)
}
