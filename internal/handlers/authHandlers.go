package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecotri/internal/metrics"
	"ecotri/internal/utils"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// AnonymousToken mints a device token. There are no accounts: the token only
// ties a device to its own history and points.
func (h *AuthHandler) AnonymousToken(w http.ResponseWriter, r *http.Request) {
	deviceID := primitive.NewObjectID()

	token, err := utils.GenerateDeviceToken(deviceID)
	if err != nil {
		log.Error().Err(err).Msg("Error generating device token")
		utils.SendJSONError(w, "Could not issue device token", http.StatusInternalServerError)
		return
	}

	metrics.DevicesRegisteredTotal.Inc()
	log.Info().Str("deviceID", deviceID.Hex()).Msg("Issued anonymous device token")

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"token":    token,
		"deviceId": deviceID.Hex(),
	})
}
