package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

const DefaultChannelName = "general"

// NewWorkspace creates the workspace, its creator's admin membership and the default channel together.
func NewWorkspace(ctx context.Context, user *models.Account, name string) (models.Workspace, error) {
	if user == nil {
		return models.Workspace{}, ErrUnauthorized
	}

	workspace := models.Workspace{
		Name:      name,
		JoinCode:  NewJoinCode(),
		AccountID: user.ID,
	}

	err := database.C.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&workspace).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Member{
			WorkspaceID: workspace.ID,
			AccountID:   user.ID,
			Role:        models.MemberRoleAdmin,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Channel{
			Name:        DefaultChannelName,
			WorkspaceID: workspace.ID,
		}).Error
	})

	return workspace, err
}

// ListWorkspace returns every workspace the user is a member of.
func ListWorkspace(ctx context.Context, user *models.Account) ([]models.Workspace, error) {
	workspaces := make([]models.Workspace, 0)
	if user == nil {
		return workspaces, nil
	}

	var members []models.Member
	if err := database.C.WithContext(ctx).
		Where("account_id = ?", user.ID).
		Find(&members).Error; err != nil {
		return workspaces, fmt.Errorf("unable to get memberships: %v", err)
	}
	if len(members) == 0 {
		return workspaces, nil
	}

	idx := lo.Map(members, func(item models.Member, index int) uint {
		return item.WorkspaceID
	})
	if err := database.C.WithContext(ctx).
		Where("id IN ?", idx).
		Order("id ASC").
		Find(&workspaces).Error; err != nil {
		return workspaces, err
	}

	return workspaces, nil
}

func getWorkspace(ctx context.Context, id uint) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := database.C.WithContext(ctx).Where("id = ?", id).First(&workspace).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &workspace, nil
}

// GetWorkspace requires a session but reports non-members as nil.
func GetWorkspace(ctx context.Context, user *models.Account, id uint) (*models.Workspace, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	if member, err := GetWorkspaceMember(ctx, id, user.ID); err != nil || member == nil {
		return nil, err
	}
	return getWorkspace(ctx, id)
}

func GetWorkspaceInfo(ctx context.Context, user *models.Account, id uint) (*models.WorkspaceInfo, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	workspace, err := getWorkspace(ctx, id)
	if err != nil || workspace == nil {
		return nil, err
	}
	member, err := GetWorkspaceMember(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	return &models.WorkspaceInfo{
		Name:     workspace.Name,
		IsMember: member != nil,
	}, nil
}

func EditWorkspace(ctx context.Context, user *models.Account, id uint, name string) (uint, error) {
	if _, err := RequireAdmin(ctx, id, user); err != nil {
		return 0, err
	}
	tx := database.C.WithContext(ctx).
		Model(&models.Workspace{}).
		Where("id = ?", id).
		Update("name", name)
	if tx.Error != nil {
		return 0, tx.Error
	} else if tx.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: workspace not found", ErrNotFound)
	}
	return id, nil
}

func RegenerateJoinCode(ctx context.Context, user *models.Account, id uint) (uint, error) {
	if _, err := RequireAdmin(ctx, id, user); err != nil {
		return 0, err
	}
	tx := database.C.WithContext(ctx).
		Model(&models.Workspace{}).
		Where("id = ?", id).
		Update("join_code", NewJoinCode())
	if tx.Error != nil {
		return 0, tx.Error
	} else if tx.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: workspace not found", ErrNotFound)
	}
	return id, nil
}

// JoinWorkspace adds the caller as a plain member when the join code matches.
func JoinWorkspace(ctx context.Context, user *models.Account, id uint, code string) (uint, error) {
	if user == nil {
		return 0, ErrUnauthorized
	}
	workspace, err := getWorkspace(ctx, id)
	if err != nil {
		return 0, err
	} else if workspace == nil {
		return 0, fmt.Errorf("%w: workspace not found", ErrNotFound)
	}
	if strings.ToLower(strings.TrimSpace(code)) != workspace.JoinCode {
		return 0, fmt.Errorf("%w: invalid join code", ErrInvalidRequest)
	}

	if member, err := GetWorkspaceMember(ctx, id, user.ID); err != nil {
		return 0, err
	} else if member != nil {
		return 0, fmt.Errorf("%w: already a member of this workspace", ErrInvalidRequest)
	}

	if err := database.C.WithContext(ctx).Create(&models.Member{
		WorkspaceID: id,
		AccountID:   user.ID,
		Role:        models.MemberRoleMember,
	}).Error; err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteWorkspace is admin only and removes every dependent row before the workspace itself.
func DeleteWorkspace(ctx context.Context, user *models.Account, id uint) (uint, error) {
	if _, err := RequireAdmin(ctx, id, user); err != nil {
		return 0, err
	}
	if err := cascadeWorkspace(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}
