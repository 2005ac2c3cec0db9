package service

import (
	"context"
	"errors"
	"time"

	"github.com/yasminebennouis/app-reclamations/internal/models"
	"github.com/yasminebennouis/app-reclamations/internal/repository"
	"github.com/yasminebennouis/app-reclamations/internal/utils"
)

// Login failure messages are the exact strings the mobile client displays.
var (
	ErrUserUnknown = errors.New("Utilisateur inexistant")
	ErrBadPassword = errors.New("Mot de passe incorrect")
)

type AuthService struct {
	users  repository.UserRepository
	secret string
}

func NewAuthService(users repository.UserRepository, secret string) *AuthService {
	return &AuthService{users: users, secret: secret}
}

// Login checks credentials and returns the user plus a signed session token.
// The token goes into an httpOnly cookie; the response body stays the plain
// {username, role, service} shape the client expects.
func (a *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	u, hash, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, ErrUserUnknown
	}
	if !utils.CheckPassword(hash, password) {
		return "", nil, ErrBadPassword
	}
	tok, err := utils.SignJWT(a.secret, u.Username, string(u.Role), 24*time.Hour)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}
