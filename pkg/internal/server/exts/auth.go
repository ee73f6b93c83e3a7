package exts

import (
	"strings"

	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"git.solsynth.dev/hypernet/chat/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// AuthMiddleware links the bearer token to an account when there is a valid one.
// Requests without a valid token continue anonymously.
func AuthMiddleware(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	tk, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || len(tk) == 0 {
		return c.Next()
	}

	claims, err := services.ParseAccountToken(tk)
	if err != nil {
		log.Debug().Err(err).Msg("Ignored an invalid access token.")
		return c.Next()
	}

	account, err := services.LinkAccount(c.UserContext(), claims)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	c.Locals("user", account)

	return c.Next()
}

// GetUser returns the caller or nil for anonymous requests.
func GetUser(c *fiber.Ctx) *models.Account {
	if user, ok := c.Locals("user").(models.Account); ok {
		return &user
	}
	return nil
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	if GetUser(c) == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return nil
}
