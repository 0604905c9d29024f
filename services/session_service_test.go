package services

import (
	"testing"
	"time"

	"firedesk/models"
	"firedesk/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, claims SessionClaims, secret string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseSessionAdmin(t *testing.T) {
	token := signedToken(t, SessionClaims{
		UserID: "u1",
		Role:   models.RoleAdmin,
	}, testSecret)

	viewer, err := ParseSession(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u1", viewer.UserID)
	assert.True(t, viewer.GlobalScope())
	assert.Empty(t, viewer.StationID)
}

func TestParseSessionStationAdmin(t *testing.T) {
	token := signedToken(t, SessionClaims{
		UserID:    "u2",
		Role:      models.RoleStationAdmin,
		StationID: "s1",
	}, testSecret)

	viewer, err := ParseSession(token, testSecret)
	require.NoError(t, err)
	assert.False(t, viewer.GlobalScope())
	assert.Equal(t, "s1", viewer.StationID)
}

func TestParseSessionRejectsStationAdminWithoutStation(t *testing.T) {
	token := signedToken(t, SessionClaims{
		UserID: "u3",
		Role:   models.RoleStationAdmin,
	}, testSecret)

	_, err := ParseSession(token, testSecret)
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrCodeUnauthorized))
}

func TestParseSessionRejectsUnknownRole(t *testing.T) {
	token := signedToken(t, SessionClaims{
		UserID: "u4",
		Role:   "dispatcher",
	}, testSecret)

	_, err := ParseSession(token, testSecret)
	require.Error(t, err)
}

func TestParseSessionRejectsBadSignature(t *testing.T) {
	token := signedToken(t, SessionClaims{
		UserID: "u5",
		Role:   models.RoleAdmin,
	}, "wrong-secret")

	_, err := ParseSession(token, testSecret)
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrCodeUnauthorized))
}

func TestParseSessionRejectsExpired(t *testing.T) {
	token := signedToken(t, SessionClaims{
		UserID: "u6",
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}, testSecret)

	_, err := ParseSession(token, testSecret)
	require.Error(t, err)
}

func TestParseSessionRejectsGarbage(t *testing.T) {
	_, err := ParseSession("not-a-token", testSecret)
	require.Error(t, err)
}
