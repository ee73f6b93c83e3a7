package services

import (
	"context"
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// AccountClaims is what the identity provider puts into an access token.
type AccountClaims struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Picture *string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

func ParseAccountToken(tk string) (AccountClaims, error) {
	var claims AccountClaims
	token, err := jwt.ParseWithClaims(tk, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return []byte(viper.GetString("security.jwt_secret")), nil
	})
	if err != nil {
		return claims, err
	}
	if !token.Valid {
		return claims, fmt.Errorf("invalid token")
	} else if len(claims.Subject) == 0 {
		return claims, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

// LinkAccount returns the local account for a token subject, creating or refreshing it.
func LinkAccount(ctx context.Context, claims AccountClaims) (models.Account, error) {
	var account models.Account
	err := database.C.WithContext(ctx).
		Where("external_id = ?", claims.Subject).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.Account{
			ExternalID: claims.Subject,
			Name:       claims.Name,
			Email:      claims.Email,
			Image:      claims.Picture,
		}
		if err := database.C.WithContext(ctx).Create(&account).Error; err != nil {
			return account, fmt.Errorf("unable to link account: %v", err)
		}
		return account, nil
	} else if err != nil {
		return account, err
	}

	if account.Name != claims.Name || account.Email != claims.Email || !sameImage(account.Image, claims.Picture) {
		account.Name = claims.Name
		account.Email = claims.Email
		account.Image = claims.Picture
		if err := database.C.WithContext(ctx).Save(&account).Error; err != nil {
			return account, err
		}
	}

	return account, nil
}

func GetAccount(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := database.C.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func sameImage(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
