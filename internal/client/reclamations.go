package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/yasminebennouis/app-reclamations/internal/models"
)

// LoginResponse is the authenticated identity: service is nil for
// everyone but technicians.
type LoginResponse struct {
	Username string          `json:"username"`
	Role     models.Role     `json:"role"`
	Service  *models.Service `json:"service"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- demandeur ---

type CreatePayload struct {
	Service     models.Service `json:"service"`
	Titre       string         `json:"titre"`
	Description string         `json:"description"`
	PhotoBase64 string         `json:"photoBase64,omitempty"`
	PhotoPath   string         `json:"photoPath,omitempty"`
}

func (c *Client) CreateReclamation(ctx context.Context, username string, p CreatePayload) (*models.Reclamation, error) {
	var out models.Reclamation
	q := url.Values{"username": {username}}
	if err := c.do(ctx, http.MethodPost, "/api/demandeur/reclamations", q, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyReclamations(ctx context.Context, username string) ([]models.Reclamation, error) {
	var out []models.Reclamation
	q := url.Values{"username": {username}}
	if err := c.do(ctx, http.MethodGet, "/api/demandeur/reclamations", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MyReclamationDetail(ctx context.Context, id int64, username string) (*models.Reclamation, error) {
	var out models.Reclamation
	q := url.Values{"username": {username}}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/demandeur/reclamations/%d", id), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- technicien ---

func (c *Client) ServiceReclamations(ctx context.Context, username string) ([]models.Reclamation, error) {
	var out []models.Reclamation
	q := url.Values{"username": {username}}
	if err := c.do(ctx, http.MethodGet, "/api/technicien/reclamations", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ServiceReclamationDetail(ctx context.Context, id int64, username string) (*models.Reclamation, error) {
	var out models.Reclamation
	q := url.Values{"username": {username}}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/technicien/reclamations/%d", id), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostTechnicianReply submits the technician's comment and status. The
// comment is required and checked before anything goes on the wire; the
// body carries it under both "reponse" and "commentaire" for backend
// compatibility.
func (c *Client) PostTechnicianReply(ctx context.Context, id int64, username string, comment string, statut models.Statut) (*models.Reclamation, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, ErrCommentRequired
	}
	body := map[string]any{
		"reponse":     comment,
		"commentaire": comment,
		"statut":      statut,
	}
	var out models.Reclamation
	q := url.Values{"username": {username}}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/technicien/reclamations/%d/reponse", id), q, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TechnicianReplies(ctx context.Context, username string) ([]models.Reclamation, error) {
	var out []models.Reclamation
	q := url.Values{"username": {username}}
	if err := c.do(ctx, http.MethodGet, "/api/technicien/reclamations/replied", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- admin ---

// AdminListParams mirrors the admin listing query string; zero values are
// omitted so the server applies its own defaults.
type AdminListParams struct {
	Page    int
	Size    int
	Sort    string
	Statut  *models.Statut
	Service *models.Service
	Q       string
}

func (p AdminListParams) values() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Statut != nil {
		q.Set("statut", string(*p.Statut))
	}
	if p.Service != nil {
		q.Set("service", string(*p.Service))
	}
	if s := strings.TrimSpace(p.Q); s != "" {
		q.Set("q", s)
	}
	return q
}

// AdminReclamations accepts either the Page envelope or a bare array from
// the server and always hands back a normalized page.
func (c *Client) AdminReclamations(ctx context.Context, p AdminListParams) (*models.Page, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/admin/reclamations", p.values(), nil, &raw); err != nil {
		return nil, err
	}
	return ToPage(raw)
}

// adminDetailWindow is how many records the synthesized admin detail
// lookup scans. Only ids inside the first window are found.
const adminDetailWindow = 500

// AdminReclamationDetail has no dedicated endpoint on older backends: it
// fetches a large first page and searches it client-side.
func (c *Client) AdminReclamationDetail(ctx context.Context, id int64) (*models.Reclamation, error) {
	page, err := c.AdminReclamations(ctx, AdminListParams{Page: 0, Size: adminDetailWindow})
	if err != nil {
		return nil, err
	}
	for i := range page.Content {
		if page.Content[i].ID == id {
			return &page.Content[i], nil
		}
	}
	return nil, ErrNotFound
}

// AllReclamations returns page 0 (size 50) as a plain slice; the list
// fallback path filters it client-side.
func (c *Client) AllReclamations(ctx context.Context) ([]models.Reclamation, error) {
	page, err := c.AdminReclamations(ctx, AdminListParams{Page: 0, Size: 50})
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

// ReclamationDetail dispatches to exactly one role-scoped fetch: "my"
// and "service" hit direct endpoints, "all" uses the synthesized admin
// window search.
func (c *Client) ReclamationDetail(ctx context.Context, id int64, mode, username string) (*models.Reclamation, error) {
	switch mode {
	case "service":
		return c.ServiceReclamationDetail(ctx, id, username)
	case "all":
		return c.AdminReclamationDetail(ctx, id)
	default:
		return c.MyReclamationDetail(ctx, id, username)
	}
}

func (c *Client) AdminStats(ctx context.Context) (*models.Stats, error) {
	var out models.Stats
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
