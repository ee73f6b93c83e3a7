package services

import (
	"context"
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"gorm.io/gorm"
)

func findConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := database.C.WithContext(ctx).Where("id = ?", id).First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

// CreateOrGetConversation returns the direct conversation between the caller and another member.
// The pair is unordered.
func CreateOrGetConversation(ctx context.Context, user *models.Account, workspaceId, memberId uint) (uint, error) {
	current, err := RequireMember(ctx, workspaceId, user)
	if err != nil {
		return 0, err
	}

	other, err := findMember(ctx, memberId)
	if err != nil {
		return 0, err
	} else if other == nil || other.WorkspaceID != workspaceId {
		return 0, fmt.Errorf("%w: member not found", ErrNotFound)
	}

	var conversation models.Conversation
	err = database.C.WithContext(ctx).
		Where("workspace_id = ?", workspaceId).
		Where(
			"(member_one_id = ? AND member_two_id = ?) OR (member_one_id = ? AND member_two_id = ?)",
			current.ID, other.ID, other.ID, current.ID,
		).
		First(&conversation).Error
	if err == nil {
		return conversation.ID, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	conversation = models.Conversation{
		WorkspaceID: workspaceId,
		MemberOneID: current.ID,
		MemberTwoID: other.ID,
	}
	if err := database.C.WithContext(ctx).Create(&conversation).Error; err != nil {
		return 0, err
	}
	return conversation.ID, nil
}
