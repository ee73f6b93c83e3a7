package api

import (
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		workspaces := api.Group("/workspaces").Name("Workspaces API")
		{
			workspaces.Get("/", listWorkspace)
			workspaces.Post("/", createWorkspace)
			workspaces.Get("/:workspaceId", getWorkspace)
			workspaces.Get("/:workspaceId/info", getWorkspaceInfo)
			workspaces.Put("/:workspaceId", editWorkspace)
			workspaces.Delete("/:workspaceId", deleteWorkspace)
			workspaces.Post("/:workspaceId/join", joinWorkspace)
			workspaces.Post("/:workspaceId/join-code", regenerateJoinCode)

			workspaces.Get("/:workspaceId/channels", listChannel)
			workspaces.Post("/:workspaceId/channels", createChannel)
			workspaces.Get("/:workspaceId/members", listMember)
			workspaces.Get("/:workspaceId/members/me", getCurrentMember)
			workspaces.Post("/:workspaceId/conversations", createOrGetConversation)
		}

		channels := api.Group("/channels").Name("Channels API")
		{
			channels.Get("/:channelId", getChannel)
			channels.Put("/:channelId", editChannel)
			channels.Delete("/:channelId", deleteChannel)
		}

		members := api.Group("/members").Name("Members API")
		{
			members.Get("/:memberId", getMember)
			members.Put("/:memberId", editMember)
			members.Delete("/:memberId", removeMember)
		}

		messages := api.Group("/messages").Name("Messages API")
		{
			messages.Get("/", listMessage)
			messages.Post("/", createMessage)
			messages.Get("/:messageId", getMessage)
			messages.Put("/:messageId", editMessage)
			messages.Delete("/:messageId", deleteMessage)
			messages.Post("/:messageId/reactions", toggleReaction)
		}

		uploads := api.Group("/uploads").Name("Uploads API")
		{
			uploads.Post("/", generateUploadUrl)
			uploads.Post("/:ticket", uploadFile)
		}
	}
}

func paramID(c *fiber.Ctx, key string) uint {
	id, _ := c.ParamsInt(key, 0)
	if id < 0 {
		return 0
	}
	return uint(id)
}

func queryOptionalID(c *fiber.Ctx, key string) *uint {
	id := c.QueryInt(key, 0)
	if id <= 0 {
		return nil
	}
	out := uint(id)
	return &out
}
