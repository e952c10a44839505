package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"ecotri/internal/models"
	"ecotri/internal/services"
	"ecotri/internal/utils"
)

type HistoryHandler struct {
	service services.HistoryService
}

func NewHistoryHandler(service services.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	deviceID, err := utils.GetDeviceIDFromContext(w, r)
	if err != nil {
		return
	}

	items, err := h.service.GetHistory(r.Context(), deviceID)
	if err != nil {
		log.Error().Err(err).Str("deviceID", deviceID.Hex()).Msg("Error getting history from service")
		utils.SendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.HistoryItem{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}
