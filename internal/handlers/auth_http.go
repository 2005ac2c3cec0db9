package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/yasminebennouis/app-reclamations/internal/service"
	"github.com/yasminebennouis/app-reclamations/internal/utils"
)

type AuthHTTP struct {
	svc *service.AuthService
}

func NewAuthHTTP(s *service.AuthService) *AuthHTTP { return &AuthHTTP{svc: s} }

// POST /api/auth/login
// Body {username, password}; response body {username, role, service} with
// service null for non-technicians. A session cookie is set on top, but the
// client only relies on the body.
func (h *AuthHTTP) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		token, u, err := h.svc.Login(r.Context(), in.Username, in.Password)
		if err != nil {
			if errors.Is(err, service.ErrUserUnknown) || errors.Is(err, service.ErrBadPassword) {
				utils.Error(w, http.StatusUnauthorized, err.Error())
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "session",
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(24 * time.Hour),
		})

		utils.JSON(w, http.StatusOK, map[string]any{
			"username": u.Username,
			"role":     u.Role,
			"service":  u.Service,
		})
	}
}
