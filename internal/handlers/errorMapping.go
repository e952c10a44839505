package handlers

import (
	"errors"
	"net/http"

	"ecotri/internal/models"
	"ecotri/internal/services"
	"ecotri/internal/utils"
)

// sendTaxonomyError maps a service error onto the user-facing failure
// taxonomy. Every variant gets a distinct code so the client can show a
// specific remediation message; anything unrecognized is generic
// connectivity.
func sendTaxonomyError(w http.ResponseWriter, err error) {
	var locErr *services.LocationUnknownError

	switch {
	case errors.Is(err, models.ErrNotConfigured):
		utils.SendCodedError(w, "The assistant is unavailable. Check the API access configuration.", models.CodeNotConfigured, http.StatusServiceUnavailable)
	case errors.Is(err, models.ErrNoMatch):
		utils.SendCodedError(w, "Could not identify the item. Try rephrasing with a simpler name.", models.CodeNoMatch, http.StatusUnprocessableEntity)
	case errors.Is(err, models.ErrInvalidInput):
		utils.SendCodedError(w, err.Error(), models.CodeValidation, http.StatusBadRequest)
	case errors.Is(err, models.ErrSortBusy):
		utils.SendCodedError(w, err.Error(), models.CodeSortBusy, http.StatusConflict)
	case errors.Is(err, models.ErrChatBusy):
		utils.SendCodedError(w, err.Error(), models.CodeChatBusy, http.StatusConflict)
	case errors.Is(err, models.ErrNoActiveResult):
		utils.SendCodedError(w, err.Error(), models.CodeNoActiveResult, http.StatusConflict)
	case errors.As(err, &locErr):
		utils.SendCodedError(w, locErr.Error(), string(locErr.Reason), http.StatusPreconditionFailed)
	default:
		utils.SendCodedError(w, "Something went wrong. Please retry.", models.CodeConnectivity, http.StatusBadGateway)
	}
}
