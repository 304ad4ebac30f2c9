package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "user@test.com", "MANAGER")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@test.com", claims.Email)
	assert.Equal(t, "MANAGER", claims.Role)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("definitely.not.a-token")
	assert.Error(t, err)
}

func TestValidateJWTRejectsWrongKey(t *testing.T) {
	claims := Claims{
		UserID: 1,
		Email:  "user@test.com",
		Role:   "EMPLOYEE",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("some-other-secret"))
	assert.NoError(t, err)

	_, err = ValidateJWT(signed)
	assert.Error(t, err)
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	claims := Claims{
		UserID: 1,
		Email:  "user@test.com",
		Role:   "EMPLOYEE",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secretKey())
	assert.NoError(t, err)

	_, err = ValidateJWT(signed)
	assert.Error(t, err)
}
