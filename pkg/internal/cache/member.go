package cache

import (
	"context"
	"fmt"

	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
)

func WorkspaceTag(workspace uint) string {
	return fmt.Sprintf("workspace#%d", workspace)
}

func AccountTag(account uint) string {
	return fmt.Sprintf("account#%d", account)
}

func memberKey(workspace, account uint) string {
	return fmt.Sprintf("workspace-member#%d@%d", account, workspace)
}

func marshal() *marshaler.Marshaler {
	return marshaler.New(cache.New[any](S))
}

// GetMember returns the cached membership, ok is false on a miss or when caching is off.
func GetMember(ctx context.Context, workspace, account uint) (models.Member, bool) {
	if S == nil {
		return models.Member{}, false
	}
	val, err := marshal().Get(ctx, memberKey(workspace, account), new(models.Member))
	if err != nil {
		return models.Member{}, false
	}
	member, ok := val.(*models.Member)
	if !ok || member == nil {
		return models.Member{}, false
	}
	return *member, true
}

// SetMember caches a found membership. Absent memberships are never cached.
func SetMember(ctx context.Context, member models.Member) {
	if S == nil {
		return
	}
	_ = marshal().Set(
		ctx,
		memberKey(member.WorkspaceID, member.AccountID),
		member,
		store.WithTags([]string{WorkspaceTag(member.WorkspaceID), AccountTag(member.AccountID)}),
	)
}

func InvalidateMember(ctx context.Context, workspace, account uint) {
	if S == nil {
		return
	}
	_ = marshal().Delete(ctx, memberKey(workspace, account))
}

func InvalidateWorkspace(ctx context.Context, workspace uint) {
	if S == nil {
		return
	}
	_ = marshal().Invalidate(ctx, store.WithInvalidateTags([]string{WorkspaceTag(workspace)}))
}
