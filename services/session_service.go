package services

import (
	"firedesk/models"
	"firedesk/utils"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the operator session token payload issued by the
// central service.
type SessionClaims struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	StationID string `json:"stationId,omitempty"`
	jwt.RegisteredClaims
}

// ParseSession derives the client context from the operator's session
// token. A station-scoped role without a station id is rejected here,
// once, so no downstream component ever fetches or joins with an
// undefined station identity.
func ParseSession(tokenString, secret string) (models.ClientContext, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, utils.NewUnauthorizedError("Unexpected token signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return models.ClientContext{}, utils.NewUnauthorizedError("Invalid session token")
	}

	switch claims.Role {
	case models.RoleAdmin:
	case models.RoleStationAdmin:
		if claims.StationID == "" {
			return models.ClientContext{}, utils.NewUnauthorizedError("Station-scoped session token has no station id")
		}
	default:
		return models.ClientContext{}, utils.NewUnauthorizedError("Unknown role in session token")
	}

	return models.ClientContext{
		UserID:    claims.UserID,
		Role:      claims.Role,
		StationID: claims.StationID,
	}, nil
}
