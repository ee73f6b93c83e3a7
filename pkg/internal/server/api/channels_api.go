package api

import (
	"git.solsynth.dev/hypernet/chat/pkg/internal/server/exts"
	"git.solsynth.dev/hypernet/chat/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listChannel(c *fiber.Ctx) error {
	channels, err := services.ListChannel(c.UserContext(), exts.GetUser(c), paramID(c, "workspaceId"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(channels)
}

func getChannel(c *fiber.Ctx) error {
	channel, err := services.GetChannel(c.UserContext(), exts.GetUser(c), paramID(c, "channelId"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(channel)
}

func createChannel(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data struct {
		Name string `json:"name" validate:"required,min=3,max=80"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	channel, err := services.NewChannel(c.UserContext(), exts.GetUser(c), paramID(c, "workspaceId"), data.Name)
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": channel.ID})
}

func editChannel(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data struct {
		Name string `json:"name" validate:"required,min=3,max=80"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	id, err := services.EditChannel(c.UserContext(), exts.GetUser(c), paramID(c, "channelId"), data.Name)
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func deleteChannel(c *fiber.Ctx) error {
	id, err := services.DeleteChannel(c.UserContext(), exts.GetUser(c), paramID(c, "channelId"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": id})
}
