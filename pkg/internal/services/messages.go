package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	jsoniter "github.com/json-iterator/go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type MessageFilter struct {
	ChannelID       *uint
	ConversationID  *uint
	ParentMessageID *uint
}

type MessageInput struct {
	Body            datatypes.JSON
	Image           *string
	WorkspaceID     uint
	ChannelID       *uint
	ConversationID  *uint
	ParentMessageID *uint
}

type pageCursor struct {
	CreatedAt int64 `json:"t"`
	ID        uint  `json:"i"`
}

func encodeCursor(message models.Message) string {
	raw, _ := jsoniter.Marshal(pageCursor{CreatedAt: message.CreatedAt.UnixNano(), ID: message.ID})
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(cursor string) (*pageCursor, error) {
	if len(cursor) == 0 {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed page cursor", ErrInvalidRequest)
	}
	var out pageCursor
	if err := jsoniter.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: malformed page cursor", ErrInvalidRequest)
	}
	return &out, nil
}

func findMessage(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := database.C.WithContext(ctx).Where("id = ?", id).First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

// resolveParent loads the parent of a reply. When the reply names neither a channel
// nor a conversation it inherits the parent's conversation, which is how threads
// inside a direct conversation are addressed.
func resolveParent(ctx context.Context, filter MessageFilter) (MessageFilter, *models.Message, error) {
	if filter.ParentMessageID == nil {
		return filter, nil, nil
	}
	parent, err := findMessage(ctx, *filter.ParentMessageID)
	if err != nil {
		return filter, nil, err
	} else if parent == nil {
		return filter, nil, fmt.Errorf("%w: parent message not found", ErrNotFound)
	}
	if filter.ChannelID == nil && filter.ConversationID == nil {
		filter.ConversationID = parent.ConversationID
	}
	return filter, parent, nil
}

// whereScope matches a nullable column exactly, absent means IS NULL.
func whereScope(tx *gorm.DB, column string, value *uint) *gorm.DB {
	if value == nil {
		return tx.Where(column + " IS NULL")
	}
	return tx.Where(column+" = ?", *value)
}

// scopeWorkspace finds the workspace a listing scope lives in, zero if nothing resolves.
func scopeWorkspace(ctx context.Context, filter MessageFilter, parent *models.Message) (uint, error) {
	if filter.ChannelID != nil {
		channel, err := findChannel(ctx, *filter.ChannelID)
		if err != nil || channel == nil {
			return 0, err
		}
		return channel.WorkspaceID, nil
	}
	if filter.ConversationID != nil {
		conversation, err := findConversation(ctx, *filter.ConversationID)
		if err != nil || conversation == nil {
			return 0, err
		}
		return conversation.WorkspaceID, nil
	}
	if parent != nil {
		return parent.WorkspaceID, nil
	}
	return 0, nil
}

// ListMessage returns the newest first page of a channel, conversation or thread, enriched for display.
func ListMessage(ctx context.Context, user *models.Account, filter MessageFilter, opts models.PageOptions) (models.Page[models.EnrichedMessage], error) {
	out := models.Page[models.EnrichedMessage]{Page: make([]models.EnrichedMessage, 0), IsDone: true}
	if user == nil {
		return out, ErrUnauthorized
	}

	filter, parent, err := resolveParent(ctx, filter)
	if err != nil {
		return out, err
	}
	cursor, err := decodeCursor(opts.Cursor)
	if err != nil {
		return out, err
	}

	workspaceId, err := scopeWorkspace(ctx, filter, parent)
	if err != nil || workspaceId == 0 {
		return out, err
	}
	if member, err := GetWorkspaceMember(ctx, workspaceId, user.ID); err != nil || member == nil {
		return out, err
	}

	take := opts.NumItems
	if take <= 0 {
		take = DefaultPageSize
	} else if take > MaxPageSize {
		take = MaxPageSize
	}

	tx := database.C.WithContext(ctx).Model(&models.Message{})
	tx = whereScope(tx, "channel_id", filter.ChannelID)
	tx = whereScope(tx, "parent_message_id", filter.ParentMessageID)
	tx = whereScope(tx, "conversation_id", filter.ConversationID)
	if cursor != nil {
		boundary := time.Unix(0, cursor.CreatedAt).UTC()
		tx = tx.Where("(created_at < ? OR (created_at = ? AND id < ?))", boundary, boundary, cursor.ID)
	}

	var messages []models.Message
	if err := tx.
		Order("created_at DESC").
		Order("id DESC").
		Limit(take + 1).
		Find(&messages).Error; err != nil {
		return out, err
	}

	if len(messages) > take {
		messages = messages[:take]
		out.IsDone = false
		out.ContinueCursor = encodeCursor(messages[len(messages)-1])
	}

	out.Page, err = EnrichMessages(ctx, messages)
	return out, err
}

func GetMessage(ctx context.Context, user *models.Account, id uint) (*models.EnrichedMessage, error) {
	if user == nil {
		return nil, nil
	}
	message, err := findMessage(ctx, id)
	if err != nil || message == nil {
		return nil, err
	}
	if member, err := GetWorkspaceMember(ctx, message.WorkspaceID, user.ID); err != nil || member == nil {
		return nil, err
	}
	return EnrichMessage(ctx, *message)
}

func NewMessage(ctx context.Context, user *models.Account, input MessageInput) (uint, error) {
	member, err := RequireMember(ctx, input.WorkspaceID, user)
	if err != nil {
		return 0, err
	}

	filter, parent, err := resolveParent(ctx, MessageFilter{
		ChannelID:       input.ChannelID,
		ConversationID:  input.ConversationID,
		ParentMessageID: input.ParentMessageID,
	})
	if err != nil {
		return 0, err
	}

	if parent != nil && parent.WorkspaceID != input.WorkspaceID {
		return 0, fmt.Errorf("%w: parent message not found", ErrNotFound)
	}
	if filter.ChannelID != nil && filter.ConversationID != nil {
		return 0, fmt.Errorf("%w: message cannot be in a channel and a conversation at once", ErrInvalidRequest)
	} else if filter.ChannelID == nil && filter.ConversationID == nil {
		return 0, fmt.Errorf("%w: message needs a channel or a conversation", ErrInvalidRequest)
	}
	if filter.ChannelID != nil {
		if channel, err := findChannel(ctx, *filter.ChannelID); err != nil {
			return 0, err
		} else if channel == nil || channel.WorkspaceID != input.WorkspaceID {
			return 0, fmt.Errorf("%w: channel not found", ErrNotFound)
		}
	} else {
		if conversation, err := findConversation(ctx, *filter.ConversationID); err != nil {
			return 0, err
		} else if conversation == nil || conversation.WorkspaceID != input.WorkspaceID {
			return 0, fmt.Errorf("%w: conversation not found", ErrNotFound)
		}
	}

	message := models.Message{
		Body:            input.Body,
		Image:           input.Image,
		MemberID:        member.ID,
		WorkspaceID:     input.WorkspaceID,
		ChannelID:       filter.ChannelID,
		ConversationID:  filter.ConversationID,
		ParentMessageID: input.ParentMessageID,
	}
	if err := database.C.WithContext(ctx).Create(&message).Error; err != nil {
		return 0, err
	}
	return message.ID, nil
}

// requireAuthor resolves a message that only its author may change.
func requireAuthor(ctx context.Context, user *models.Account, id uint) (*models.Message, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	message, err := findMessage(ctx, id)
	if err != nil {
		return nil, err
	} else if message == nil {
		return nil, fmt.Errorf("%w: message not found", ErrNotFound)
	}
	member, err := RequireMember(ctx, message.WorkspaceID, user)
	if err != nil {
		return nil, err
	} else if member.ID != message.MemberID {
		return nil, fmt.Errorf("%w: only the author can change a message", ErrUnauthorized)
	}
	return message, nil
}

// EditMessage replaces the body only, placement never changes.
func EditMessage(ctx context.Context, user *models.Account, id uint, body datatypes.JSON) (uint, error) {
	message, err := requireAuthor(ctx, user, id)
	if err != nil {
		return 0, err
	}
	if err := database.C.WithContext(ctx).
		Model(message).
		Updates(map[string]any{
			"body":      body,
			"edited_at": time.Now().UTC(),
		}).Error; err != nil {
		return 0, err
	}
	return message.ID, nil
}

func DeleteMessage(ctx context.Context, user *models.Account, id uint) (uint, error) {
	message, err := requireAuthor(ctx, user, id)
	if err != nil {
		return 0, err
	}
	err = database.C.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", message.ID).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(message).Error
	})
	if err != nil {
		return 0, err
	}
	return message.ID, nil
}
