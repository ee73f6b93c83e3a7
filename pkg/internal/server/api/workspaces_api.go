package api

import (
	"git.solsynth.dev/hypernet/chat/pkg/internal/server/exts"
	"git.solsynth.dev/hypernet/chat/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listWorkspace(c *fiber.Ctx) error {
	workspaces, err := services.ListWorkspace(c.UserContext(), exts.GetUser(c))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(workspaces)
}

func getWorkspace(c *fiber.Ctx) error {
	workspace, err := services.GetWorkspace(c.UserContext(), exts.GetUser(c), paramID(c, "workspaceId"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(workspace)
}

func getWorkspaceInfo(c *fiber.Ctx) error {
	info, err := services.GetWorkspaceInfo(c.UserContext(), exts.GetUser(c), paramID(c, "workspaceId"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(info)
}

func createWorkspace(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data struct {
		Name string `json:"name" validate:"required,min=3,max=80"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	workspace, err := services.NewWorkspace(c.UserContext(), exts.GetUser(c), data.Name)
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": workspace.ID})
}

func editWorkspace(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data struct {
		Name string `json:"name" validate:"required,min=3,max=80"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	id, err := services.EditWorkspace(c.UserContext(), exts.GetUser(c), paramID(c, "workspaceId"), data.Name)
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func deleteWorkspace(c *fiber.Ctx) error {
	id, err := services.DeleteWorkspace(c.UserContext(), exts.GetUser(c), paramID(c, "workspaceId"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func joinWorkspace(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data struct {
		JoinCode string `json:"join_code" validate:"required,len=6"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	id, err := services.JoinWorkspace(c.UserContext(), exts.GetUser(c), paramID(c, "workspaceId"), data.JoinCode)
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func regenerateJoinCode(c *fiber.Ctx) error {
	id, err := services.RegenerateJoinCode(c.UserContext(), exts.GetUser(c), paramID(c, "workspaceId"))
	if err != nil {
		return exts.ErrorToFiber(err)
	}
	return c.JSON(fiber.Map{"id": id})
}
