package utils

import (
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/jmgomezsoriano/easy-tube/infrastructure/logger"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateToken signs an HS256 token for subject that expires after ttl. A zero ttl never expires.
func GenerateToken(subject string, ttl time.Duration, secretKey string) (string, error) {
	now := GetCurrentTime()
	claims := jwt.StandardClaims{
		Subject:  subject,
		IssuedAt: now.Unix(),
		Issuer:   "easy-tube",
	}
	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}
