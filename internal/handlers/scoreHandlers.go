package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"ecotri/internal/services"
	"ecotri/internal/utils"
)

type ScoreHandler struct {
	service services.GamificationService
}

func NewScoreHandler(service services.GamificationService) *ScoreHandler {
	return &ScoreHandler{service: service}
}

func (h *ScoreHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	deviceID, err := utils.GetDeviceIDFromContext(w, r)
	if err != nil {
		return
	}

	level, err := h.service.GetLevel(r.Context(), deviceID)
	if err != nil {
		log.Error().Err(err).Str("deviceID", deviceID.Hex()).Msg("Error getting score from service")
		utils.SendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, level)
}
