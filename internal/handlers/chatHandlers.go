package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"ecotri/internal/models"
	"ecotri/internal/services"
	"ecotri/internal/utils"
)

type ChatHandler struct {
	service services.ChatService
}

func NewChatHandler(service services.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	deviceID, err := utils.GetDeviceIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.ChatRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendCodedError(w, "Invalid JSON: "+err.Error(), models.CodeValidation, http.StatusBadRequest)
		return
	}

	transcript, err := h.service.Send(r.Context(), deviceID, reqBody.Message)
	if err != nil {
		log.Warn().Err(err).Str("deviceID", deviceID.Hex()).Msg("Chat send rejected")
		sendTaxonomyError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"transcript": transcript})
}

func (h *ChatHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	deviceID, err := utils.GetDeviceIDFromContext(w, r)
	if err != nil {
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"transcript": h.service.Transcript(deviceID)})
}
