package jwt

import (
	"encoding/json"
	"fmt"
	types "go-twocheckout/internal/common/type"
	"go-twocheckout/internal/pkg/helper"
	"go-twocheckout/internal/pkg/logger"
	"go-twocheckout/internal/pkg/validation"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ClientDataKey = "client_data"
)

func getJWTSecret() []byte {
	secret := helper.GetEnv("JWT_SECRET")
	if secret == "" {
		logger.Warning.Println("JWT_SECRET not found, using default secret")
		secret = "$d3f4uIt_s3cr3t_key#"
	}
	return []byte(secret)
}

// GenerateToken signs a service token for a host order system client.
func GenerateToken(data types.ClientWithAuth, ttl time.Duration) (string, *time.Time, error) {
	exp := time.Now().Add(ttl)

	claims := jwt.MapClaims{
		"exp":         exp.Unix(),
		"sub":         data.ID.String(),
		ClientDataKey: data,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(getJWTSecret())
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, &exp, nil
}

func ValidateToken(jwtToken string) (*types.ClientWithAuth, error) {
	token, err := jwt.Parse(jwtToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		var client types.ClientWithAuth
		if claims[ClientDataKey] == nil {
			return nil, fmt.Errorf("client data not found in token claims")
		}

		clientBytes, err := json.Marshal(claims[ClientDataKey])
		if err != nil {
			return nil, fmt.Errorf("error marshalling client data: %v", err)
		}

		err = json.Unmarshal(clientBytes, &client)
		if err != nil {
			return nil, fmt.Errorf("error unmarshalling client data: %v", err)
		}

		err = validation.Validate(client)
		if err != nil {
			return nil, err
		}

		return &client, nil
	}

	return nil, fmt.Errorf("invalid token")
}
