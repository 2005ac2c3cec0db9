package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yasminebennouis/app-reclamations/internal/models"
	"github.com/yasminebennouis/app-reclamations/internal/repository"
)

var (
	ErrReclamationUnknown = errors.New("Réclamation introuvable")
	ErrDemandeurUnknown   = errors.New("Demandeur introuvable")
	ErrTechnicienUnknown  = errors.New("Technicien introuvable")
	ErrNotDemandeur       = errors.New("Utilisateur non DEMANDEUR")
	ErrNotTechnicien      = errors.New("Utilisateur non TECHNICIEN")
	ErrAccessDenied       = errors.New("Accès refusé")
	ErrWrongService       = errors.New("Hors de votre service")
)

type CreateRequest struct {
	Service     models.Service `json:"service"`
	Titre       string         `json:"titre"`
	Description string         `json:"description"`
	PhotoBase64 string         `json:"photoBase64,omitempty"`
	PhotoPath   string         `json:"photoPath,omitempty"`
}

// TechReply carries the technician update. Commentaire is the canonical
// field; Reponse is accepted as an alias because older client builds sent
// both.
type TechReply struct {
	Commentaire string        `json:"commentaire"`
	Reponse     string        `json:"reponse,omitempty"`
	Statut      models.Statut `json:"statut"`
}

type ReclamationService struct {
	recs      repository.ReclamationRepository
	users     repository.UserRepository
	uploadDir string
	log       zerolog.Logger
}

func NewReclamationService(recs repository.ReclamationRepository, users repository.UserRepository, uploadDir string, log zerolog.Logger) *ReclamationService {
	return &ReclamationService{recs: recs, users: users, uploadDir: uploadDir, log: log}
}

// --- demandeur ---

func (s *ReclamationService) Create(ctx context.Context, demandeurUsername string, req CreateRequest) (*models.Reclamation, error) {
	dem, _, err := s.users.GetByUsername(ctx, demandeurUsername)
	if err != nil {
		return nil, err
	}
	if dem == nil {
		return nil, ErrDemandeurUnknown
	}
	if dem.Role != models.RoleDemandeur {
		return nil, ErrNotDemandeur
	}

	now := time.Now()
	r := &models.Reclamation{
		Titre:        strings.TrimSpace(req.Titre),
		Description:  strings.TrimSpace(req.Description),
		Service:      req.Service,
		Statut:       models.StatutOuvert,
		DateCreation: now,
		DateUpdate:   &now,
		Demandeur:    dem,
		PhotoPath:    req.PhotoPath,
	}

	if strings.TrimSpace(req.PhotoBase64) != "" {
		path, err := s.savePhoto(req.PhotoBase64)
		if err != nil {
			// Photo loss is not fatal to the réclamation itself.
			s.log.Warn().Err(err).Msg("photo save failed")
		} else {
			r.PhotoPath = path
		}
	}

	if err := s.recs.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReclamationService) HistoryDemandeur(ctx context.Context, username string) ([]models.Reclamation, error) {
	dem, _, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if dem == nil {
		return nil, ErrDemandeurUnknown
	}
	return s.recs.ListByDemandeur(ctx, username)
}

func (s *ReclamationService) DetailForDemandeur(ctx context.Context, username string, id int64) (*models.Reclamation, error) {
	r, err := s.recs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReclamationUnknown
		}
		return nil, err
	}
	if r.Demandeur == nil || r.Demandeur.Username != username {
		return nil, ErrAccessDenied
	}
	return r, nil
}

// --- technicien ---

func (s *ReclamationService) technicien(ctx context.Context, username string) (*models.User, error) {
	tech, _, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if tech == nil {
		return nil, ErrTechnicienUnknown
	}
	if tech.Role != models.RoleTechnicien || tech.Service == nil {
		return nil, ErrNotTechnicien
	}
	return tech, nil
}

func (s *ReclamationService) ListForTechnician(ctx context.Context, username string) ([]models.Reclamation, error) {
	tech, err := s.technicien(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.recs.ListByService(ctx, *tech.Service)
}

func (s *ReclamationService) DetailForTechnician(ctx context.Context, username string, id int64) (*models.Reclamation, error) {
	tech, err := s.technicien(ctx, username)
	if err != nil {
		return nil, err
	}
	r, err := s.recs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReclamationUnknown
		}
		return nil, err
	}
	if r.Service != *tech.Service {
		return nil, ErrWrongService
	}
	return r, nil
}

func (s *ReclamationService) RepliedByTechnician(ctx context.Context, username string) ([]models.Reclamation, error) {
	if _, err := s.technicien(ctx, username); err != nil {
		return nil, err
	}
	return s.recs.ListByTechnicien(ctx, username)
}

// Reply records the technician's comment and status. dateResolution is
// stamped only when the statut is terminal.
func (s *ReclamationService) Reply(ctx context.Context, username string, id int64, body TechReply) (*models.Reclamation, error) {
	tech, err := s.technicien(ctx, username)
	if err != nil {
		return nil, err
	}
	r, err := s.recs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReclamationUnknown
		}
		return nil, err
	}
	if r.Service != *tech.Service {
		return nil, ErrWrongService
	}

	comment := body.Commentaire
	if comment == "" {
		comment = body.Reponse
	}

	now := time.Now()
	r.Technicien = tech
	r.ReponseTechnicien = comment
	r.Statut = body.Statut
	r.DateUpdate = &now
	if body.Statut == models.StatutResolue || body.Statut == models.StatutNonResolue {
		r.DateResolution = &now
	}
	if err := s.recs.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// --- admin ---

func (s *ReclamationService) AdminList(ctx context.Context, f repository.AdminFilter) (*models.Page, error) {
	f = f.Normalize()
	items, total, err := s.recs.SearchAdmin(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Reclamation{}
	}
	totalPages := int((total + int64(f.Size) - 1) / int64(f.Size))
	if totalPages < 1 {
		totalPages = 1
	}
	return &models.Page{
		Content:       items,
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        f.Page,
		Size:          f.Size,
	}, nil
}

func (s *ReclamationService) AdminDetail(ctx context.Context, id int64) (*models.Reclamation, error) {
	r, err := s.recs.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReclamationUnknown
	}
	return r, err
}

func (s *ReclamationService) Stats(ctx context.Context) (*models.Stats, error) {
	out := &models.Stats{
		ParService: make(map[models.Service]int64, 3),
		ParStatut:  make(map[models.Statut]int64, 4),
	}
	for _, svc := range models.Services() {
		n, err := s.recs.CountByService(ctx, svc)
		if err != nil {
			return nil, err
		}
		out.ParService[svc] = n
	}
	for _, st := range models.Statuts() {
		n, err := s.recs.CountByStatut(ctx, st)
		if err != nil {
			return nil, err
		}
		out.ParStatut[st] = n
	}
	avgSec, err := s.recs.AvgResolutionSeconds(ctx)
	if err != nil {
		return nil, err
	}
	if avgSec != nil {
		m := int64(*avgSec/60 + 0.5)
		out.DureeMoyenneResolutionMinutes = &m
	}
	return out, nil
}

// savePhoto accepts a data URL ("data:image/...;base64,....") or raw base64
// and writes the decoded image under the upload dir, returning the web path.
func (s *ReclamationService) savePhoto(b64 string) (string, error) {
	raw := b64
	if i := strings.Index(raw, ","); i >= 0 && strings.HasPrefix(raw, "data:") {
		raw = raw[i+1:]
	}
	img, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("decode photo: %w", err)
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("IMG_%d.jpg", time.Now().UnixNano())
	if err := os.WriteFile(filepath.Join(s.uploadDir, name), img, 0o644); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
