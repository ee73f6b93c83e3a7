package services

import (
	"context"
	"testing"

	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMessagePaginates(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ada := newTestAccount(t, "ada")
	workspace := newTestWorkspace(t, ada, "Acme")
	general := generalChannel(t, workspace)

	var posted []uint
	for range 5 {
		posted = append(posted, postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID}))
	}

	var seen []uint
	opts := models.PageOptions{NumItems: 2}
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5, "pagination does not terminate")
		page, err := ListMessage(ctx, ada, MessageFilter{ChannelID: &general.ID}, opts)
		require.NoError(t, err)
		for _, item := range page.Page {
			seen = append(seen, item.ID)
		}
		if page.IsDone {
			assert.Empty(t, page.ContinueCursor)
			break
		}
		assert.Len(t, page.Page, 2)
		opts.Cursor = page.ContinueCursor
	}

	// Newest first
	expected := make([]uint, len(posted))
	for idx, id := range posted {
		expected[len(posted)-1-idx] = id
	}
	assert.Equal(t, expected, seen)
}

func TestListMessageExcludesReplies(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ada := newTestAccount(t, "ada")
	workspace := newTestWorkspace(t, ada, "Acme")
	general := generalChannel(t, workspace)

	root := postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID})
	reply := postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID, ParentMessageID: &root})

	page, err := ListMessage(ctx, ada, MessageFilter{ChannelID: &general.ID}, models.PageOptions{})
	require.NoError(t, err)
	require.Len(t, page.Page, 1)
	assert.Equal(t, root, page.Page[0].ID)
	assert.Equal(t, 1, page.Page[0].ThreadCount)

	page, err = ListMessage(ctx, ada, MessageFilter{ChannelID: &general.ID, ParentMessageID: &root}, models.PageOptions{})
	require.NoError(t, err)
	require.Len(t, page.Page, 1)
	assert.Equal(t, reply, page.Page[0].ID)
}

func TestListMessageRequiresUser(t *testing.T) {
	setupTestDB(t)
	ada := newTestAccount(t, "ada")
	workspace := newTestWorkspace(t, ada, "Acme")
	general := generalChannel(t, workspace)

	_, err := ListMessage(context.Background(), nil, MessageFilter{ChannelID: &general.ID}, models.PageOptions{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestListMessageRejectsMalformedCursor(t *testing.T) {
	setupTestDB(t)
	ada := newTestAccount(t, "ada")
	workspace := newTestWorkspace(t, ada, "Acme")
	general := generalChannel(t, workspace)

	_, err := ListMessage(context.Background(), ada, MessageFilter{ChannelID: &general.ID}, models.PageOptions{Cursor: "%%%"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestThreadInConversationInheritsConversation(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ada := newTestAccount(t, "ada")
	bob := newTestAccount(t, "bob")
	workspace := newTestWorkspace(t, ada, "Acme")
	bobMember := joinTestWorkspace(t, bob, workspace)

	conversationId, err := CreateOrGetConversation(ctx, ada, workspace.ID, bobMember.ID)
	require.NoError(t, err)
	again, err := CreateOrGetConversation(ctx, bob, workspace.ID, func() uint {
		member, err := GetCurrentMember(ctx, ada, workspace.ID)
		require.NoError(t, err)
		return member.ID
	}())
	require.NoError(t, err)
	assert.Equal(t, conversationId, again)

	root := postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ConversationID: &conversationId})
	reply := postTestMessage(t, bob, MessageInput{WorkspaceID: workspace.ID, ParentMessageID: &root})

	stored, err := findMessage(ctx, reply)
	require.NoError(t, err)
	require.NotNil(t, stored.ConversationID)
	assert.Equal(t, conversationId, *stored.ConversationID)
	assert.Nil(t, stored.ChannelID)

	page, err := ListMessage(ctx, ada, MessageFilter{ParentMessageID: &root}, models.PageOptions{})
	require.NoError(t, err)
	require.Len(t, page.Page, 1)
	assert.Equal(t, reply, page.Page[0].ID)
}

func TestParentMessageNotFound(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ada := newTestAccount(t, "ada")
	workspace := newTestWorkspace(t, ada, "Acme")
	general := generalChannel(t, workspace)

	_, err := ListMessage(ctx, ada, MessageFilter{ChannelID: &general.ID, ParentMessageID: ptr(uint(999))}, models.PageOptions{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "parent message not found")

	_, err = NewMessage(ctx, ada, MessageInput{
		WorkspaceID:     workspace.ID,
		ChannelID:       &general.ID,
		ParentMessageID: ptr(uint(999)),
		Body:            testBody("orphan"),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewMessagePlacement(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ada := newTestAccount(t, "ada")
	bob := newTestAccount(t, "bob")
	workspace := newTestWorkspace(t, ada, "Acme")
	other := newTestWorkspace(t, ada, "Other")
	bobMember := joinTestWorkspace(t, bob, workspace)
	general := generalChannel(t, workspace)
	foreign := generalChannel(t, other)
	conversationId, err := CreateOrGetConversation(ctx, ada, workspace.ID, bobMember.ID)
	require.NoError(t, err)

	_, err = NewMessage(ctx, ada, MessageInput{WorkspaceID: workspace.ID, Body: testBody("nowhere")})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = NewMessage(ctx, ada, MessageInput{
		WorkspaceID:    workspace.ID,
		ChannelID:      &general.ID,
		ConversationID: &conversationId,
		Body:           testBody("everywhere"),
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = NewMessage(ctx, ada, MessageInput{WorkspaceID: workspace.ID, ChannelID: &foreign.ID, Body: testBody("leak")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditAndDeleteMessageByAuthorOnly(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ada := newTestAccount(t, "ada")
	bob := newTestAccount(t, "bob")
	workspace := newTestWorkspace(t, ada, "Acme")
	joinTestWorkspace(t, bob, workspace)
	general := generalChannel(t, workspace)
	messageId := postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID})

	_, err := EditMessage(ctx, bob, messageId, testBody("not mine"))
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = EditMessage(ctx, ada, messageId, testBody("edited"))
	require.NoError(t, err)
	message, err := GetMessage(ctx, ada, messageId)
	require.NoError(t, err)
	require.NotNil(t, message)
	assert.NotNil(t, message.EditedAt)
	assert.JSONEq(t, string(testBody("edited")), string(message.Body))

	_, err = ToggleReaction(ctx, bob, messageId, "👍")
	require.NoError(t, err)

	_, err = DeleteMessage(ctx, bob, messageId)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = DeleteMessage(ctx, ada, messageId)
	require.NoError(t, err)

	message, err = GetMessage(ctx, ada, messageId)
	require.NoError(t, err)
	assert.Nil(t, message)

	var reactions int64
	require.NoError(t, database.C.Model(&models.Reaction{}).Where("message_id = ?", messageId).Count(&reactions).Error)
	assert.Zero(t, reactions)

	_, err = DeleteMessage(ctx, ada, messageId)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecodeCursorErrors(t *testing.T) {
	_, err := decodeCursor("bm90LWpzb24")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	cursor, err := decodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestConversationVisibleToWorkspaceMembers(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ada := newTestAccount(t, "ada")
	bob := newTestAccount(t, "bob")
	cid := newTestAccount(t, "cid")
	workspace := newTestWorkspace(t, ada, "Acme")
	bobMember := joinTestWorkspace(t, bob, workspace)
	joinTestWorkspace(t, cid, workspace)

	conversationId, err := CreateOrGetConversation(ctx, ada, workspace.ID, bobMember.ID)
	require.NoError(t, err)
	postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ConversationID: &conversationId})

	// Conversations are scoped to the workspace, not to their two members
	page, err := ListMessage(ctx, cid, MessageFilter{ConversationID: &conversationId}, models.PageOptions{})
	require.NoError(t, err)
	assert.Len(t, page.Page, 1)
	postTestMessage(t, cid, MessageInput{WorkspaceID: workspace.ID, ConversationID: &conversationId})
}
