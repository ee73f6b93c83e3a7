package services

import (
	"context"
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"gorm.io/gorm"
)

func findChannel(ctx context.Context, id uint) (*models.Channel, error) {
	var channel models.Channel
	if err := database.C.WithContext(ctx).Where("id = ?", id).First(&channel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &channel, nil
}

// ListChannel returns the channels of a workspace, empty for anyone outside it.
func ListChannel(ctx context.Context, user *models.Account, workspaceId uint) ([]models.Channel, error) {
	channels := make([]models.Channel, 0)
	if member, err := lookupMember(ctx, workspaceId, user); err != nil || member == nil {
		return channels, err
	}

	if err := database.C.WithContext(ctx).
		Where("workspace_id = ?", workspaceId).
		Order("id ASC").
		Find(&channels).Error; err != nil {
		return channels, err
	}
	return channels, nil
}

func GetChannel(ctx context.Context, user *models.Account, id uint) (*models.Channel, error) {
	if user == nil {
		return nil, nil
	}
	channel, err := findChannel(ctx, id)
	if err != nil || channel == nil {
		return nil, err
	}
	if member, err := lookupMember(ctx, channel.WorkspaceID, user); err != nil || member == nil {
		return nil, err
	}
	return channel, nil
}

func NewChannel(ctx context.Context, user *models.Account, workspaceId uint, name string) (models.Channel, error) {
	if _, err := RequireAdmin(ctx, workspaceId, user); err != nil {
		return models.Channel{}, err
	}

	channel := models.Channel{
		Name:        NormalizeChannelName(name),
		WorkspaceID: workspaceId,
	}
	err := database.C.WithContext(ctx).Create(&channel).Error
	return channel, err
}

// requireChannelAdmin resolves the channel first so a missing channel reads as not found.
func requireChannelAdmin(ctx context.Context, user *models.Account, id uint) (*models.Channel, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	channel, err := findChannel(ctx, id)
	if err != nil {
		return nil, err
	} else if channel == nil {
		return nil, fmt.Errorf("%w: channel not found", ErrNotFound)
	}
	if _, err := RequireAdmin(ctx, channel.WorkspaceID, user); err != nil {
		return nil, err
	}
	return channel, nil
}

func EditChannel(ctx context.Context, user *models.Account, id uint, name string) (uint, error) {
	channel, err := requireChannelAdmin(ctx, user, id)
	if err != nil {
		return 0, err
	}

	channel.Name = NormalizeChannelName(name)
	if err := database.C.WithContext(ctx).
		Model(channel).
		Update("name", channel.Name).Error; err != nil {
		return 0, err
	}
	return channel.ID, nil
}

// DeleteChannel removes the channel together with its messages and their reactions.
func DeleteChannel(ctx context.Context, user *models.Account, id uint) (uint, error) {
	channel, err := requireChannelAdmin(ctx, user, id)
	if err != nil {
		return 0, err
	}
	if err := cascadeChannel(ctx, channel.ID); err != nil {
		return 0, err
	}
	return channel.ID, nil
}
