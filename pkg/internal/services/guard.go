package services

import (
	"context"
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/chat/pkg/internal/cache"
	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"gorm.io/gorm"
)

// GetWorkspaceMember looks up the membership of an account in a workspace.
// A missing membership is reported as nil without an error.
func GetWorkspaceMember(ctx context.Context, workspaceId, accountId uint) (*models.Member, error) {
	if member, ok := cache.GetMember(ctx, workspaceId, accountId); ok {
		return &member, nil
	}

	var member models.Member
	if err := database.C.WithContext(ctx).
		Where("workspace_id = ? AND account_id = ?", workspaceId, accountId).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	cache.SetMember(ctx, member)
	return &member, nil
}

// RequireMember fails with ErrUnauthorized unless the user belongs to the workspace.
func RequireMember(ctx context.Context, workspaceId uint, user *models.Account) (models.Member, error) {
	if user == nil {
		return models.Member{}, ErrUnauthorized
	}
	member, err := GetWorkspaceMember(ctx, workspaceId, user.ID)
	if err != nil {
		return models.Member{}, err
	} else if member == nil {
		return models.Member{}, fmt.Errorf("%w: not a member of this workspace", ErrUnauthorized)
	}
	return *member, nil
}

// RequireAdmin is RequireMember plus the admin role.
func RequireAdmin(ctx context.Context, workspaceId uint, user *models.Account) (models.Member, error) {
	member, err := RequireMember(ctx, workspaceId, user)
	if err != nil {
		return member, err
	} else if !member.IsAdmin() {
		return member, fmt.Errorf("%w: admin role required", ErrUnauthorized)
	}
	return member, nil
}

// lookupMember is the non-raising form used by queries.
func lookupMember(ctx context.Context, workspaceId uint, user *models.Account) (*models.Member, error) {
	if user == nil {
		return nil, nil
	}
	return GetWorkspaceMember(ctx, workspaceId, user.ID)
}
