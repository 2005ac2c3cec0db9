package repository

import (
	"context"
	"errors"

	"github.com/yasminebennouis/app-reclamations/internal/models"
)

var ErrNotFound = errors.New("not found")

type ReclamationRepository interface {
	Create(ctx context.Context, r *models.Reclamation) error
	GetByID(ctx context.Context, id int64) (*models.Reclamation, error)
	Update(ctx context.Context, r *models.Reclamation) error

	// ListByDemandeur orders by dateCreation desc, ListByTechnicien by
	// dateUpdate desc (most recently answered first).
	ListByDemandeur(ctx context.Context, username string) ([]models.Reclamation, error)
	ListByService(ctx context.Context, svc models.Service) ([]models.Reclamation, error)
	ListByTechnicien(ctx context.Context, username string) ([]models.Reclamation, error)

	SearchAdmin(ctx context.Context, f AdminFilter) ([]models.Reclamation, int64, error)

	CountByService(ctx context.Context, svc models.Service) (int64, error)
	CountByStatut(ctx context.Context, st models.Statut) (int64, error)
	// AvgResolutionSeconds returns nil when nothing has been resolved.
	AvgResolutionSeconds(ctx context.Context) (*float64, error)
}

type UserRepository interface {
	// GetByUsername returns the user and its password hash, or
	// (nil, "", nil) when the username is unknown.
	GetByUsername(ctx context.Context, username string) (*models.User, string, error)
	Create(ctx context.Context, u *models.User, passwordHash string) error
}
