package handlers

import (
	"errors"
	"net/http"

	"github.com/yasminebennouis/app-reclamations/internal/service"
	"github.com/yasminebennouis/app-reclamations/internal/utils"
)

// writeServiceError maps workflow errors onto the status codes the client
// distinguishes: unknown record → 404, scope violations → 403, role or
// identity problems → 400, everything else → 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrReclamationUnknown):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAccessDenied), errors.Is(err, service.ErrWrongService):
		utils.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrDemandeurUnknown),
		errors.Is(err, service.ErrTechnicienUnknown),
		errors.Is(err, service.ErrNotDemandeur),
		errors.Is(err, service.ErrNotTechnicien):
		utils.Error(w, http.StatusBadRequest, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}
