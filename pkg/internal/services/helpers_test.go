package services

import (
	"context"
	"fmt"
	"testing"

	"git.solsynth.dev/hypernet/chat/pkg/internal/cache"
	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"git.solsynth.dev/hypernet/chat/pkg/internal/storage"
	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.RunMigration(db))

	viper.Set("security.upload_secret", "test-upload-secret")

	prevDB, prevCache, prevBucket := database.C, cache.S, storage.B
	database.C, cache.S, storage.B = db, nil, nil
	t.Cleanup(func() {
		database.C, cache.S, storage.B = prevDB, prevCache, prevBucket
		_ = sqlDB.Close()
	})
}

func newTestAccount(t *testing.T, name string) *models.Account {
	t.Helper()
	image := fmt.Sprintf("https://avatars.example.com/%s.png", name)
	account := models.Account{
		ExternalID: "ext-" + name,
		Name:       name,
		Email:      name + "@example.com",
		Image:      &image,
	}
	require.NoError(t, database.C.Create(&account).Error)
	return &account
}

func newTestWorkspace(t *testing.T, owner *models.Account, name string) models.Workspace {
	t.Helper()
	workspace, err := NewWorkspace(context.Background(), owner, name)
	require.NoError(t, err)
	return workspace
}

func joinTestWorkspace(t *testing.T, user *models.Account, workspace models.Workspace) models.Member {
	t.Helper()
	ctx := context.Background()
	_, err := JoinWorkspace(ctx, user, workspace.ID, workspace.JoinCode)
	require.NoError(t, err)
	member, err := GetWorkspaceMember(ctx, workspace.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, member)
	return *member
}

func generalChannel(t *testing.T, workspace models.Workspace) models.Channel {
	t.Helper()
	var channel models.Channel
	require.NoError(t, database.C.
		Where("workspace_id = ? AND name = ?", workspace.ID, DefaultChannelName).
		First(&channel).Error)
	return channel
}

func testBody(text string) datatypes.JSON {
	return datatypes.JSON(fmt.Sprintf(`{"ops":[{"insert":%q}]}`, text+"\n"))
}

func postTestMessage(t *testing.T, user *models.Account, input MessageInput) uint {
	t.Helper()
	if input.Body == nil {
		input.Body = testBody("hello")
	}
	id, err := NewMessage(context.Background(), user, input)
	require.NoError(t, err)
	return id
}

func ptr[T any](v T) *T {
	return &v
}

func deleteTestAccount(account *models.Account) error {
	return database.C.Delete(account).Error
}
