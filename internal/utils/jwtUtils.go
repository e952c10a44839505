package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Claims struct {
	DeviceID string `json:"deviceId"`
	jwt.RegisteredClaims
}

// GenerateDeviceToken mints the anonymous device token that keys history and
// points. There are no user accounts; the token only ties requests from the
// same device together.
func GenerateDeviceToken(deviceID primitive.ObjectID) (string, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET"))

	expirationTime := time.Now().Add(365 * 24 * time.Hour)
	claims := &Claims{
		DeviceID: deviceID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}
