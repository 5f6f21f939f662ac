package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/synapsespace/synapsectl/internal/client/models"
	"github.com/synapsespace/synapsectl/internal/client/repositories/metadata"
	"github.com/synapsespace/synapsectl/internal/common"
)

// ProfileService keeps convenience data in the local cache: the identifier
// last used to sign in and the most recent profile snapshot. Passwords and
// staged logins are never stored.
type ProfileService interface {
	RememberLogin(ctx context.Context, usernameOrEmail string) error
	LastLogin(ctx context.Context) (string, error)
	CacheProfile(ctx context.Context, user *models.User) error
	CachedProfile(ctx context.Context) (*models.User, error)
	ClearCache(ctx context.Context) error
}

type profileService struct {
	repo metadata.Repository
}

// NewProfileService constructs a ProfileService over the metadata cache.
func NewProfileService(repo metadata.Repository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) RememberLogin(ctx context.Context, usernameOrEmail string) error {
	return s.repo.Set(ctx, metadata.KeyLastLogin, []byte(usernameOrEmail))
}

// LastLogin returns the remembered identifier, or "" when none is cached.
func (s *profileService) LastLogin(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, metadata.KeyLastLogin)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *profileService) CacheProfile(ctx context.Context, user *models.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	return s.repo.Set(ctx, metadata.KeyProfile, b)
}

// CachedProfile returns the stored snapshot, or common.ErrorNotFound.
func (s *profileService) CachedProfile(ctx context.Context) (*models.User, error) {
	v, err := s.repo.Get(ctx, metadata.KeyProfile)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal(v, &u); err != nil {
		return nil, fmt.Errorf("decoding cached profile: %w", err)
	}
	return &u, nil
}

func (s *profileService) ClearCache(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
