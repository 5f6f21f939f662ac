package services

import (
	"context"

	"github.com/synapsespace/synapsectl/internal/client/api"
	"github.com/synapsespace/synapsectl/internal/client/models"
)

// AdminService exposes the admin verification queue. Calls fail with
// api.ErrUnauthorized unless the session belongs to a superuser.
type AdminService interface {
	PendingVerifications(ctx context.Context) ([]models.User, error)
}

type adminService struct {
	client api.Client
}

func NewAdminService(client api.Client) AdminService {
	return &adminService{client: client}
}

func (s *adminService) PendingVerifications(ctx context.Context) ([]models.User, error) {
	return s.client.ListVerificationRequests(ctx)
}
