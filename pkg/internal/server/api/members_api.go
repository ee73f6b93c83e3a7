package api

import (
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"git.solsynth.dev/hypernet/chat/pkg/internal/server/exts"
	"git.solsynth.dev/hypernet/chat/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listMember(c *fiber.Ctx) error {
	members, err := services.ListMember(c.UserContext(), exts.GetUser(c), paramID(c, "workspaceId"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(members)
}

func getMember(c *fiber.Ctx) error {
	member, err := services.GetMember(c.UserContext(), exts.GetUser(c), paramID(c, "memberId"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(member)
}

func getCurrentMember(c *fiber.Ctx) error {
	member, err := services.GetCurrentMember(c.UserContext(), exts.GetUser(c), paramID(c, "workspaceId"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(member)
}

func editMember(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data struct {
		Role models.MemberRole `json:"role" validate:"required,oneof=admin member"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	id, err := services.EditMember(c.UserContext(), exts.GetUser(c), paramID(c, "memberId"), data.Role)
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func removeMember(c *fiber.Ctx) error {
	id, err := services.RemoveMember(c.UserContext(), exts.GetUser(c), paramID(c, "memberId"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func createOrGetConversation(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data struct {
		MemberID uint `json:"member_id" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	id, err := services.CreateOrGetConversation(c.UserContext(), exts.GetUser(c), paramID(c, "workspaceId"), data.MemberID)
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": id})
}
