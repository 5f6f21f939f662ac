// Package services contains application services for the Synapse Space CLI:
// the community/post operations members use day to day, the local profile
// cache, and the admin verification queue.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/synapsespace/synapsectl/internal/client/api"
	"github.com/synapsespace/synapsectl/internal/client/models"
)

// CommunityService exposes the community and post operations of the
// platform.
type CommunityService interface {
	List(ctx context.Context) ([]models.Community, error)
	Get(ctx context.Context, id int64) (*models.Community, error)
	Join(ctx context.Context, id int64) error
	Posts(ctx context.Context, communityID int64) ([]models.Post, error)
	CreatePost(ctx context.Context, communityID int64, title, content string) (*models.Post, error)
}

type communityService struct {
	client api.Client
}

// NewCommunityService constructs a CommunityService bound to the API client.
func NewCommunityService(client api.Client) CommunityService {
	return &communityService{client: client}
}

func (s *communityService) List(ctx context.Context) ([]models.Community, error) {
	return s.client.ListCommunities(ctx)
}

func (s *communityService) Get(ctx context.Context, id int64) (*models.Community, error) {
	return s.client.GetCommunity(ctx, id)
}

func (s *communityService) Join(ctx context.Context, id int64) error {
	if err := s.client.JoinCommunity(ctx, id); err != nil {
		return fmt.Errorf("join community %d: %w", id, err)
	}
	return nil
}

func (s *communityService) Posts(ctx context.Context, communityID int64) ([]models.Post, error) {
	return s.client.ListPosts(ctx, communityID)
}

func (s *communityService) CreatePost(ctx context.Context, communityID int64, title, content string) (*models.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("post title must not be empty")
	}
	return s.client.CreatePost(ctx, communityID, title, content)
}
