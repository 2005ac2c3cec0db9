package handlers

import (
	"net/http"
	"strings"

	"github.com/yasminebennouis/app-reclamations/internal/models"
	"github.com/yasminebennouis/app-reclamations/internal/repository"
	"github.com/yasminebennouis/app-reclamations/internal/service"
	"github.com/yasminebennouis/app-reclamations/internal/utils"
)

type AdminHTTP struct {
	svc *service.ReclamationService
}

func NewAdminHTTP(s *service.ReclamationService) *AdminHTTP { return &AdminHTTP{svc: s} }

// GET /api/admin/reclamations?page=&size=&sort=&statut=&service=&q=
// Returns the Page envelope.
func (h *AdminHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()

		f := repository.AdminFilter{
			Q:    strings.TrimSpace(qv.Get("q")),
			Page: utils.QueryInt(qv, "page", 0),
			Size: utils.QueryInt(qv, "size", 20),
			Sort: qv.Get("sort"),
		}
		if s := qv.Get("statut"); s != "" {
			st, err := models.ParseStatut(s)
			if err != nil {
				utils.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			f.Statut = &st
		}
		if s := qv.Get("service"); s != "" {
			svc, err := models.ParseService(s)
			if err != nil {
				utils.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			f.Service = &svc
		}

		page, err := h.svc.AdminList(r.Context(), f)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, page)
	}
}

// GET /api/admin/reclamations/{id}
func (h *AdminHTTP) Detail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		rec, err := h.svc.AdminDetail(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, rec)
	}
}

// GET /api/admin/stats
func (h *AdminHTTP) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.svc.Stats(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, stats)
	}
}
