// Package memory holds an in-process store used when no database DSN is
// configured (demo mode) and by tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/yasminebennouis/app-reclamations/internal/models"
	"github.com/yasminebennouis/app-reclamations/internal/repository"
)

type Store struct {
	mu sync.RWMutex

	nextUserID int64
	nextRecID  int64
	users      map[string]userRecord // by username
	recs       map[int64]models.Reclamation
}

type userRecord struct {
	user models.User
	hash string
}

func NewStore() *Store {
	return &Store{users: map[string]userRecord{}, recs: map[int64]models.Reclamation{}}
}

// Users and Reclamations expose the two repository facets of the store.
func (s *Store) Users() repository.UserRepository               { return &userStore{s} }
func (s *Store) Reclamations() repository.ReclamationRepository { return &recStore{s} }

// --- users ---

type userStore struct{ *Store }

func (s *userStore) GetByUsername(_ context.Context, username string) (*models.User, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[username]
	if !ok {
		return nil, "", nil
	}
	u := rec.user
	return &u, rec.hash, nil
}

func (s *userStore) Create(_ context.Context, u *models.User, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	u.ID = s.nextUserID
	s.users[u.Username] = userRecord{user: *u, hash: passwordHash}
	return nil
}

// --- réclamations ---

type recStore struct{ *Store }

func (s *recStore) Create(_ context.Context, r *models.Reclamation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRecID++
	r.ID = s.nextRecID
	s.recs[r.ID] = *r
	return nil
}

func (s *recStore) GetByID(_ context.Context, id int64) (*models.Reclamation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (s *recStore) Update(_ context.Context, r *models.Reclamation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[r.ID]; !ok {
		return repository.ErrNotFound
	}
	s.recs[r.ID] = *r
	return nil
}

func (s *recStore) ListByDemandeur(_ context.Context, username string) ([]models.Reclamation, error) {
	return s.collect(func(r models.Reclamation) bool {
		return r.Demandeur != nil && r.Demandeur.Username == username
	}, byDateCreationDesc), nil
}

func (s *recStore) ListByService(_ context.Context, svc models.Service) ([]models.Reclamation, error) {
	return s.collect(func(r models.Reclamation) bool { return r.Service == svc }, byDateCreationDesc), nil
}

func (s *recStore) ListByTechnicien(_ context.Context, username string) ([]models.Reclamation, error) {
	return s.collect(func(r models.Reclamation) bool {
		return r.Technicien != nil && r.Technicien.Username == username
	}, byDateUpdateDesc), nil
}

func (s *recStore) SearchAdmin(_ context.Context, f repository.AdminFilter) ([]models.Reclamation, int64, error) {
	f = f.Normalize()
	needle := strings.ToLower(strings.TrimSpace(f.Q))

	matched := s.collect(func(r models.Reclamation) bool {
		if needle != "" &&
			!strings.Contains(strings.ToLower(r.Titre), needle) &&
			!strings.Contains(strings.ToLower(r.Description), needle) {
			return false
		}
		if f.Statut != nil && r.Statut != *f.Statut {
			return false
		}
		if f.Service != nil && r.Service != *f.Service {
			return false
		}
		return true
	}, sortFor(f.Sort))

	total := int64(len(matched))
	lo := f.Page * f.Size
	if lo >= len(matched) {
		return []models.Reclamation{}, total, nil
	}
	hi := lo + f.Size
	if hi > len(matched) {
		hi = len(matched)
	}
	return matched[lo:hi], total, nil
}

func (s *recStore) CountByService(_ context.Context, svc models.Service) (int64, error) {
	return int64(len(s.collect(func(r models.Reclamation) bool { return r.Service == svc }, nil))), nil
}

func (s *recStore) CountByStatut(_ context.Context, st models.Statut) (int64, error) {
	return int64(len(s.collect(func(r models.Reclamation) bool { return r.Statut == st }, nil))), nil
}

func (s *recStore) AvgResolutionSeconds(_ context.Context) (*float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum float64
	var n int
	for _, r := range s.recs {
		if r.DateResolution != nil {
			sum += r.DateResolution.Sub(r.DateCreation).Seconds()
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

// --- helpers ---

type lessFunc func(a, b models.Reclamation) bool

func byDateCreationDesc(a, b models.Reclamation) bool {
	return a.DateCreation.After(b.DateCreation)
}

func byDateUpdateDesc(a, b models.Reclamation) bool {
	switch {
	case a.DateUpdate == nil:
		return false
	case b.DateUpdate == nil:
		return true
	default:
		return a.DateUpdate.After(*b.DateUpdate)
	}
}

func sortFor(key string) lessFunc {
	if key == "dateUpdate" {
		return byDateUpdateDesc
	}
	return byDateCreationDesc
}

func (s *recStore) collect(keep func(models.Reclamation) bool, less lessFunc) []models.Reclamation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Reclamation, 0, len(s.recs))
	for _, r := range s.recs {
		if keep(r) {
			out = append(out, r)
		}
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}
