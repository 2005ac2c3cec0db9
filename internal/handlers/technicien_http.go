package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yasminebennouis/app-reclamations/internal/models"
	"github.com/yasminebennouis/app-reclamations/internal/service"
	"github.com/yasminebennouis/app-reclamations/internal/utils"
)

type TechnicienHTTP struct {
	svc *service.ReclamationService
}

func NewTechnicienHTTP(s *service.ReclamationService) *TechnicienHTTP {
	return &TechnicienHTTP{svc: s}
}

// GET /api/technicien/reclamations?username=
func (h *TechnicienHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := queryUsername(w, r)
		if !ok {
			return
		}
		items, err := h.svc.ListForTechnician(r.Context(), username)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if items == nil {
			items = []models.Reclamation{}
		}
		utils.JSON(w, http.StatusOK, items)
	}
}

// GET /api/technicien/reclamations/replied?username=
func (h *TechnicienHTTP) Replied() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := queryUsername(w, r)
		if !ok {
			return
		}
		items, err := h.svc.RepliedByTechnician(r.Context(), username)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if items == nil {
			items = []models.Reclamation{}
		}
		utils.JSON(w, http.StatusOK, items)
	}
}

// GET /api/technicien/reclamations/{id}?username=
func (h *TechnicienHTTP) Detail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := queryUsername(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		rec, err := h.svc.DetailForTechnician(r.Context(), username, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, rec)
	}
}

// POST /api/technicien/reclamations/{id}/reponse?username=
func (h *TechnicienHTTP) Reply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := queryUsername(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var in service.TechReply
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if _, err := models.ParseStatut(string(in.Statut)); err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		rec, err := h.svc.Reply(r.Context(), username, id, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, rec)
	}
}
