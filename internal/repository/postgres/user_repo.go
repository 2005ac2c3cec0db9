package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yasminebennouis/app-reclamations/internal/models"
	"github.com/yasminebennouis/app-reclamations/internal/repository"
)

type UserRepo struct{ db *pgxpool.Pool }

func NewUserRepo(db *pgxpool.Pool) repository.UserRepository { return &UserRepo{db: db} }

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, string, error) {
	var (
		u   models.User
		ph  string
		svc *string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, username, role, service, password_h
		FROM users WHERE username=$1`, username).
		Scan(&u.ID, &u.Username, &u.Role, &svc, &ph)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", err
	}
	if svc != nil {
		s := models.Service(*svc)
		u.Service = &s
	}
	return &u, ph, nil
}

func (r *UserRepo) Create(ctx context.Context, u *models.User, passwordHash string) error {
	var svc *models.Service = u.Service
	return r.db.QueryRow(ctx, `
		INSERT INTO users (username, role, service, password_h)
		VALUES ($1,$2,$3,$4)
		RETURNING id`,
		u.Username, u.Role, svc, passwordHash).
		Scan(&u.ID)
}
