package api

import (
	"bytes"
	"fmt"

	"git.solsynth.dev/hypernet/chat/pkg/internal/server/exts"
	"git.solsynth.dev/hypernet/chat/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func generateUploadUrl(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	ticket, err := services.NewUploadTicket(exts.GetUser(c))
	if err != nil {
		return exts.ErrorToFiber(err)
	}

	return c.JSON(fiber.Map{
		"url": fmt.Sprintf("%s/api/uploads/%s", c.BaseURL(), ticket),
	})
}

// uploadFile takes the raw file as the request body, the ticket in the path authorizes it.
func uploadFile(c *fiber.Ctx) error {
	claims, err := services.ParseUploadTicket(c.Params("ticket"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}

	body := c.Body()
	if len(body) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "empty upload was not allowed")
	}
	contentType := c.Get(fiber.HeaderContentType, fiber.MIMEOctetStream)

	ref, err := services.StoreUpload(c.UserContext(), claims, bytes.NewReader(body), int64(len(body)), contentType)
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"storage_id": ref})
}
