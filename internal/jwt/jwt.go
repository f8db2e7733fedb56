package jwt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pulsepost-dev/pulsepost/internal/domain"
	internal_errors "github.com/pulsepost-dev/pulsepost/internal/errors"
	"github.com/pulsepost-dev/pulsepost/internal/logger"
)

type JwtService interface {
	NewToken(userId domain.UserId) (string, error)
	VerifyToken(token string) (domain.UserId, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey, ttl}
}

// NewToken signs a bearer token carrying only the user id. The token proves
// identity at issuance time; callers re-resolve the account on every request.
func (j *Jwt) NewToken(userId domain.UserId) (string, error) {
	claims := jwt.MapClaims{
		"uid": userId,
		"exp": time.Now().Add(j.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", fmt.Errorf("can't create token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken checks signature and expiry and returns the embedded user id.
// It does not check that the account still exists.
func (j *Jwt) VerifyToken(tokenString string) (domain.UserId, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil || !token.Valid {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Invalid token", StatusCode: http.StatusUnauthorized}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Invalid token", StatusCode: http.StatusUnauthorized}
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Invalid token", StatusCode: http.StatusUnauthorized}
	}

	return domain.UserId(uid), nil
}
