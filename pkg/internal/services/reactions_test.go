package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleReaction(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ada := newTestAccount(t, "ada")
	bob := newTestAccount(t, "bob")
	workspace := newTestWorkspace(t, ada, "Acme")
	joinTestWorkspace(t, bob, workspace)
	general := generalChannel(t, workspace)
	messageId := postTestMessage(t, ada, MessageInput{WorkspaceID: workspace.ID, ChannelID: &general.ID})

	countOf := func(value string) int {
		message, err := GetMessage(ctx, ada, messageId)
		require.NoError(t, err)
		require.NotNil(t, message)
		for _, summary := range message.Reactions {
			if summary.Value == value {
				return summary.Count
			}
		}
		return 0
	}

	id, err := ToggleReaction(ctx, ada, messageId, "👍")
	require.NoError(t, err)
	assert.Equal(t, messageId, id)
	_, err = ToggleReaction(ctx, bob, messageId, "👍")
	require.NoError(t, err)
	assert.Equal(t, 2, countOf("👍"))

	_, err = ToggleReaction(ctx, bob, messageId, "👍")
	require.NoError(t, err)
	assert.Equal(t, 1, countOf("👍"))

	_, err = ToggleReaction(ctx, ada, messageId, "👍")
	require.NoError(t, err)
	assert.Equal(t, 0, countOf("👍"))

	message, err := GetMessage(ctx, ada, messageId)
	require.NoError(t, err)
	assert.Empty(t, message.Reactions)
}

func TestToggleReactionErrors(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ada := newTestAccount(t, "ada")

	_, err := ToggleReaction(ctx, nil, 1, "👍")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = ToggleReaction(ctx, ada, 404, "👍")
	assert.ErrorIs(t, err, ErrNotFound)
}
