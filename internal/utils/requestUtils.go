package utils

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetDeviceIDFromContext extracts and parses the deviceID placed in the
// request context by the auth middleware.
func GetDeviceIDFromContext(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, error) {
	deviceIDStr, ok := r.Context().Value("deviceID").(string)
	if !ok {
		SendJSONError(w, "Invalid device ID", http.StatusUnauthorized)
		return primitive.NilObjectID, errors.New("invalid device ID in context")
	}

	deviceID, err := primitive.ObjectIDFromHex(deviceIDStr)
	if err != nil {
		SendJSONError(w, "Invalid device ID format", http.StatusUnauthorized)
		return primitive.NilObjectID, errors.New("invalid device ID format in context")
	}
	return deviceID, nil
}
