package services

import (
	"context"
	"strings"
	"testing"

	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"git.solsynth.dev/hypernet/chat/pkg/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeReactions(t *testing.T) {
	reactions := []models.Reaction{
		{MessageID: 1, WorkspaceID: 7, MemberID: 10, Value: "👍"},
		{MessageID: 1, WorkspaceID: 7, MemberID: 11, Value: "🎉"},
		{MessageID: 1, WorkspaceID: 7, MemberID: 12, Value: "👍"},
		{MessageID: 1, WorkspaceID: 7, MemberID: 10, Value: "👍"},
	}

	summaries := SummarizeReactions(reactions)
	require.Len(t, summaries, 2)

	assert.Equal(t, "👍", summaries[0].Value)
	assert.Equal(t, []uint{10, 12}, summaries[0].MemberIDs)
	assert.Equal(t, 2, summaries[0].Count)
	assert.Equal(t, uint(7), summaries[0].WorkspaceID)

	assert.Equal(t, "🎉", summaries[1].Value)
	assert.Equal(t, 1, summaries[1].Count)

	assert.Empty(t, SummarizeReactions(nil))
}

func TestSummarizeThread(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ada := newTestAccount(t, "ada")
	bob := newTestAccount(t, "bob")
	workspace := newTestWorkspace(t, ada, "Acme")
	joinTestWorkspace(t, bob, workspace)
	general := generalChannel(t, workspace)
	root := postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID})

	summary, err := SummarizeThread(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, models.ThreadSummary{}, summary)

	postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID, ParentMessageID: &root})
	last := postTestMessage(t, bob, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID, ParentMessageID: &root})

	var lastMessage models.Message
	require.NoError(t, database.C.First(&lastMessage, last).Error)

	summary, err = SummarizeThread(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	require.NotNil(t, summary.Image)
	assert.Equal(t, *bob.Image, *summary.Image)
	assert.Equal(t, lastMessage.CreatedAt.UnixMilli(), summary.Timestamp)
}

func TestSummarizeThreadLastAuthorGone(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ada := newTestAccount(t, "ada")
	bob := newTestAccount(t, "bob")
	workspace := newTestWorkspace(t, ada, "Acme")
	bobMember := joinTestWorkspace(t, bob, workspace)
	general := generalChannel(t, workspace)
	root := postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID})
	postTestMessage(t, bob, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID, ParentMessageID: &root})

	_, err := RemoveMember(ctx, bob, bobMember.ID)
	require.NoError(t, err)

	summary, err := SummarizeThread(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, models.ThreadSummary{}, summary)
}

func TestEnrichMessagesDropsMissingAuthors(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ada := newTestAccount(t, "ada")
	bob := newTestAccount(t, "bob")
	workspace := newTestWorkspace(t, ada, "Acme")
	bobMember := joinTestWorkspace(t, bob, workspace)
	general := generalChannel(t, workspace)

	first := postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID})
	postTestMessage(t, bob, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID})
	third := postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID})

	_, err := RemoveMember(ctx, bob, bobMember.ID)
	require.NoError(t, err)

	page, err := ListMessage(ctx, ada, MessageFilter{ChannelID: &general.ID}, models.PageOptions{})
	require.NoError(t, err)
	require.Len(t, page.Page, 2)
	assert.Equal(t, third, page.Page[0].ID)
	assert.Equal(t, first, page.Page[1].ID)
	assert.Equal(t, ada.ID, page.Page[0].User.ID)
	assert.Equal(t, ada.ID, page.Page[0].Member.AccountID)
}

func TestEnrichMessageResolvesImage(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	storage.B = storage.NewMemoryBucket("")
	ada := newTestAccount(t, "ada")
	workspace := newTestWorkspace(t, ada, "Acme")
	general := generalChannel(t, workspace)

	ticket, err := NewUploadTicket(ada)
	require.NoError(t, err)
	claims, err := ParseUploadTicket(ticket)
	require.NoError(t, err)
	ref, err := StoreUpload(ctx, claims, strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)

	withImage := postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID, Image: &ref})
	broken := postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID, Image: ptr("missing-ref")})

	message, err := GetMessage(ctx, ada, withImage)
	require.NoError(t, err)
	require.NotNil(t, message.Image)
	assert.Equal(t, "memory://"+ref, *message.Image)

	message, err = GetMessage(ctx, ada, broken)
	require.NoError(t, err)
	require.NotNil(t, message)
	assert.Nil(t, message.Image)
}
