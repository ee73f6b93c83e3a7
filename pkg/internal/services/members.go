package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"git.solsynth.dev/hypernet/chat/pkg/internal/cache"
	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func findMember(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	if err := database.C.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// GetMember returns a member with its account, visible only to members of the same workspace.
func GetMember(ctx context.Context, user *models.Account, id uint) (*models.MemberWithAccount, error) {
	if user == nil {
		return nil, nil
	}
	member, err := findMember(ctx, id)
	if err != nil || member == nil {
		return nil, err
	}
	if current, err := GetWorkspaceMember(ctx, member.WorkspaceID, user.ID); err != nil || current == nil {
		return nil, err
	}

	account, err := GetAccount(ctx, member.AccountID)
	if err != nil || account == nil {
		return nil, err
	}
	return &models.MemberWithAccount{Member: *member, User: *account}, nil
}

// ListMember returns the members of a workspace ordered by account name.
// Members whose account is gone are skipped.
func ListMember(ctx context.Context, user *models.Account, workspaceId uint) ([]models.MemberWithAccount, error) {
	out := make([]models.MemberWithAccount, 0)
	if current, err := lookupMember(ctx, workspaceId, user); err != nil || current == nil {
		return out, err
	}

	var members []models.Member
	if err := database.C.WithContext(ctx).
		Where("workspace_id = ?", workspaceId).
		Order("id ASC").
		Find(&members).Error; err != nil {
		return out, err
	}
	if len(members) == 0 {
		return out, nil
	}

	var accounts []models.Account
	if err := database.C.WithContext(ctx).
		Where("id IN ?", lo.Map(members, func(item models.Member, index int) uint {
			return item.AccountID
		})).
		Find(&accounts).Error; err != nil {
		return out, err
	}
	accountMap := lo.KeyBy(accounts, func(item models.Account) uint {
		return item.ID
	})

	for _, member := range members {
		if account, ok := accountMap[member.AccountID]; ok {
			out = append(out, models.MemberWithAccount{Member: member, User: account})
		}
	}
	SortMembersByName(out)
	return out, nil
}

// SortMembersByName orders by account name, keeping join order between equal names.
func SortMembersByName(members []models.MemberWithAccount) {
	sort.SliceStable(members, func(i, j int) bool {
		return strings.Compare(members[i].User.Name, members[j].User.Name) < 0
	})
}

func GetCurrentMember(ctx context.Context, user *models.Account, workspaceId uint) (*models.Member, error) {
	return lookupMember(ctx, workspaceId, user)
}

func EditMember(ctx context.Context, user *models.Account, id uint, role models.MemberRole) (uint, error) {
	if user == nil {
		return 0, ErrUnauthorized
	}
	member, err := findMember(ctx, id)
	if err != nil {
		return 0, err
	} else if member == nil {
		return 0, fmt.Errorf("%w: member not found", ErrNotFound)
	}
	if _, err := RequireAdmin(ctx, member.WorkspaceID, user); err != nil {
		return 0, err
	}

	if err := database.C.WithContext(ctx).
		Model(member).
		Update("role", role).Error; err != nil {
		return 0, err
	}
	cache.InvalidateMember(ctx, member.WorkspaceID, member.AccountID)
	return member.ID, nil
}

// RemoveMember lets admins remove others and members leave by themselves.
// Admins can be neither removed nor leave.
func RemoveMember(ctx context.Context, user *models.Account, id uint) (uint, error) {
	if user == nil {
		return 0, ErrUnauthorized
	}
	member, err := findMember(ctx, id)
	if err != nil {
		return 0, err
	} else if member == nil {
		return 0, fmt.Errorf("%w: member not found", ErrNotFound)
	}
	current, err := RequireMember(ctx, member.WorkspaceID, user)
	if err != nil {
		return 0, err
	}

	if member.IsAdmin() {
		return 0, fmt.Errorf("%w: admin cannot be removed", ErrInvalidRequest)
	} else if current.ID != member.ID && !current.IsAdmin() {
		return 0, fmt.Errorf("%w: admin role required", ErrUnauthorized)
	}

	if err := database.C.WithContext(ctx).Delete(member).Error; err != nil {
		return 0, err
	}
	cache.InvalidateMember(ctx, member.WorkspaceID, member.AccountID)
	return member.ID, nil
}
