package services

import (
	"context"
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"gorm.io/gorm"
)

// ToggleReaction removes the caller's reaction with this value if present, otherwise adds it.
func ToggleReaction(ctx context.Context, user *models.Account, messageId uint, value string) (uint, error) {
	if user == nil {
		return 0, ErrUnauthorized
	}
	message, err := findMessage(ctx, messageId)
	if err != nil {
		return 0, err
	} else if message == nil {
		return 0, fmt.Errorf("%w: message not found", ErrNotFound)
	}
	member, err := RequireMember(ctx, message.WorkspaceID, user)
	if err != nil {
		return 0, err
	}

	err = database.C.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Reaction
		err := tx.
			Where("message_id = ? AND member_id = ? AND value = ?", message.ID, member.ID, value).
			First(&existing).Error
		if err == nil {
			return tx.Delete(&existing).Error
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&models.Reaction{
			WorkspaceID: message.WorkspaceID,
			MessageID:   message.ID,
			MemberID:    member.ID,
			Value:       value,
		}).Error
	})
	if err != nil {
		return 0, err
	}
	return message.ID, nil
}
