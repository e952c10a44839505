package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"ecotri/internal/models"
	"ecotri/internal/services"
	"ecotri/internal/utils"
)

type SortHandler struct {
	service services.SortService
}

func NewSortHandler(service services.SortService) *SortHandler {
	return &SortHandler{service: service}
}

// Sort classifies a text query or photo and starts the background
// enrichments. The response carries the primary result only; the client
// polls Current for the illustration and nearby points.
func (h *SortHandler) Sort(w http.ResponseWriter, r *http.Request) {
	deviceID, err := utils.GetDeviceIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.SortRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		log.Error().Err(err).Msg("Error decoding request body for Sort")
		utils.SendCodedError(w, "Invalid JSON: "+err.Error(), models.CodeValidation, http.StatusBadRequest)
		return
	}

	result, err := h.service.Sort(r.Context(), deviceID, reqBody)
	if err != nil {
		log.Error().Err(err).Str("deviceID", deviceID.Hex()).Msg("Classification failed")
		sendTaxonomyError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *SortHandler) Current(w http.ResponseWriter, r *http.Request) {
	deviceID, err := utils.GetDeviceIDFromContext(w, r)
	if err != nil {
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, h.service.Current(deviceID))
}

func (h *SortHandler) Reset(w http.ResponseWriter, r *http.Request) {
	deviceID, err := utils.GetDeviceIDFromContext(w, r)
	if err != nil {
		return
	}

	h.service.Reset(deviceID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SortHandler) SetActivePoint(w http.ResponseWriter, r *http.Request) {
	deviceID, err := utils.GetDeviceIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.ActivePointRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendCodedError(w, "Invalid JSON: "+err.Error(), models.CodeValidation, http.StatusBadRequest)
		return
	}

	snap, err := h.service.SetActivePoint(deviceID, reqBody.Index)
	if err != nil {
		sendTaxonomyError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, snap)
}

func (h *SortHandler) MapMoved(w http.ResponseWriter, r *http.Request) {
	deviceID, err := utils.GetDeviceIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.MapMovedRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendCodedError(w, "Invalid JSON: "+err.Error(), models.CodeValidation, http.StatusBadRequest)
		return
	}

	snap, err := h.service.MapMoved(deviceID, reqBody.Center)
	if err != nil {
		sendTaxonomyError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, snap)
}

func (h *SortHandler) SearchArea(w http.ResponseWriter, r *http.Request) {
	deviceID, err := utils.GetDeviceIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.SearchAreaRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendCodedError(w, "Invalid JSON: "+err.Error(), models.CodeValidation, http.StatusBadRequest)
		return
	}

	snap, err := h.service.SearchArea(r.Context(), deviceID, reqBody.Center)
	if err != nil {
		log.Error().Err(err).Str("deviceID", deviceID.Hex()).Msg("Area search failed")
		sendTaxonomyError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, snap)
}
