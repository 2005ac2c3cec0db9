package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yasminebennouis/app-reclamations/internal/models"
	"github.com/yasminebennouis/app-reclamations/internal/service"
	"github.com/yasminebennouis/app-reclamations/internal/utils"
)

type DemandeurHTTP struct {
	svc *service.ReclamationService
}

func NewDemandeurHTTP(s *service.ReclamationService) *DemandeurHTTP {
	return &DemandeurHTTP{svc: s}
}

// POST /api/demandeur/reclamations?username=
func (h *DemandeurHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := queryUsername(w, r)
		if !ok {
			return
		}

		var in service.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if strings.TrimSpace(in.Titre) == "" {
			utils.Error(w, http.StatusBadRequest, "titre is required")
			return
		}
		if _, err := models.ParseService(string(in.Service)); err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		rec, err := h.svc.Create(r.Context(), username, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, rec)
	}
}

// GET /api/demandeur/reclamations?username=
func (h *DemandeurHTTP) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := queryUsername(w, r)
		if !ok {
			return
		}
		items, err := h.svc.HistoryDemandeur(r.Context(), username)
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

// GET /api/demandeur/reclamations/{id}?username=
func (h *DemandeurHTTP) Detail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := queryUsername(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		rec, err := h.svc.DetailForDemandeur(r.Context(), username, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, rec)
	}
}

// --- shared param helpers ---

func queryUsername(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		utils.Error(w, http.StatusBadRequest, "username is required")
		return "", false
	}
	return username, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
