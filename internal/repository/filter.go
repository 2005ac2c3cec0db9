package repository

import "github.com/yasminebennouis/app-reclamations/internal/models"

// AdminFilter mirrors the /api/admin/reclamations query parameters.
type AdminFilter struct {
	Q       string
	Statut  *models.Statut
	Service *models.Service
	Page    int
	Size    int
	Sort    string // dateCreation | dateUpdate
}

// Normalize applies the server-side defaults (page 0, size 20, sort by
// dateCreation descending).
func (f AdminFilter) Normalize() AdminFilter {
	if f.Page < 0 {
		f.Page = 0
	}
	if f.Size <= 0 {
		f.Size = 20
	}
	if f.Sort != "dateUpdate" {
		f.Sort = "dateCreation"
	}
	return f
}
