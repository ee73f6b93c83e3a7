package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"git.solsynth.dev/hypernet/chat/pkg/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// UploadClaims authorizes blob uploads for an account until the ticket expires.
// Tickets are not single use.
type UploadClaims struct {
	AccountID uint `json:"account_id"`
	jwt.RegisteredClaims
}

func uploadTicketTTL() time.Duration {
	if ttl := viper.GetDuration("uploads.ttl"); ttl > 0 {
		return ttl
	}
	return time.Hour
}

func NewUploadTicket(user *models.Account) (string, error) {
	if user == nil {
		return "", ErrUnauthorized
	}

	claims := UploadClaims{
		AccountID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    "chat",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(uploadTicketTTL())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tks, err := token.SignedString([]byte(viper.GetString("security.upload_secret")))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return tks, nil
}

func ParseUploadTicket(tk string) (UploadClaims, error) {
	var claims UploadClaims
	token, err := jwt.ParseWithClaims(tk, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return []byte(viper.GetString("security.upload_secret")), nil
	})
	if err != nil {
		return claims, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !token.Valid {
		return claims, fmt.Errorf("%w: invalid upload ticket", ErrUnauthorized)
	}
	return claims, nil
}

// StoreUpload writes the blob under a fresh storage reference and returns that reference.
func StoreUpload(ctx context.Context, claims UploadClaims, r io.Reader, size int64, contentType string) (string, error) {
	if storage.B == nil {
		return "", fmt.Errorf("storage is not configured")
	}
	ref := uuid.NewString()
	if err := storage.B.Put(ctx, ref, r, size, contentType); err != nil {
		return "", err
	}
	log.Debug().
		Uint("account", claims.AccountID).
		Str("ref", ref).
		Int64("size", size).
		Msg("Stored an upload.")
	return ref, nil
}

// ResolveImageURL turns a storage reference into a fetchable URL, nil when it cannot.
func ResolveImageURL(ctx context.Context, ref string) *string {
	if storage.B == nil {
		return nil
	}
	link, err := storage.B.URL(ctx, ref)
	if err != nil {
		log.Warn().Err(err).Str("ref", ref).Msg("Unable to resolve an image reference.")
		return nil
	}
	return &link
}
