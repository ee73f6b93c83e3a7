package api

import (
	"strings"

	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"git.solsynth.dev/hypernet/chat/pkg/internal/server/exts"
	"git.solsynth.dev/hypernet/chat/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func listMessage(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	page, err := services.ListMessage(c.UserContext(), exts.GetUser(c), services.MessageFilter{
		ChannelID:       queryOptionalID(c, "channel_id"),
		ConversationID:  queryOptionalID(c, "conversation_id"),
		ParentMessageID: queryOptionalID(c, "parent_message_id"),
	}, models.PageOptions{
		NumItems: c.QueryInt("take", services.DefaultPageSize),
		Cursor:   c.Query("cursor"),
	})
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(page)
}

func getMessage(c *fiber.Ctx) error {
	message, err := services.GetMessage(c.UserContext(), exts.GetUser(c), paramID(c, "messageId"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(message)
}

func createMessage(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data struct {
		Body            datatypes.JSON `json:"body" validate:"required"`
		Image           *string        `json:"image"`
		WorkspaceID     uint           `json:"workspace_id" validate:"required"`
		ChannelID       *uint          `json:"channel_id"`
		ConversationID  *uint          `json:"conversation_id"`
		ParentMessageID *uint          `json:"parent_message_id"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if data.Image != nil && len(strings.TrimSpace(*data.Image)) == 0 {
		data.Image = nil
	}

	id, err := services.NewMessage(c.UserContext(), exts.GetUser(c), services.MessageInput{
		Body:            data.Body,
		Image:           data.Image,
		WorkspaceID:     data.WorkspaceID,
		ChannelID:       data.ChannelID,
		ConversationID:  data.ConversationID,
		ParentMessageID: data.ParentMessageID,
	})
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func editMessage(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data struct {
		Body datatypes.JSON `json:"body" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	id, err := services.EditMessage(c.UserContext(), exts.GetUser(c), paramID(c, "messageId"), data.Body)
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func deleteMessage(c *fiber.Ctx) error {
	id, err := services.DeleteMessage(c.UserContext(), exts.GetUser(c), paramID(c, "messageId"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func toggleReaction(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data struct {
		Value string `json:"value" validate:"required,max=64"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	id, err := services.ToggleReaction(c.UserContext(), exts.GetUser(c), paramID(c, "messageId"), data.Value)
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": id})
}
