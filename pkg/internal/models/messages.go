package models

import (
	"time"

	"gorm.io/datatypes"
)

// Message is placed in exactly one of a channel or a conversation.
// ParentMessageID marks a thread reply. Placement fields never change after creation.
type Message struct {
	BaseModel

	Body     datatypes.JSON `json:"body"`
	Image    *string        `json:"image"`
	EditedAt *time.Time     `json:"edited_at"`

	MemberID        uint  `json:"member_id" gorm:"index"`
	WorkspaceID     uint  `json:"workspace_id" gorm:"index"`
	ChannelID       *uint `json:"channel_id" gorm:"index:idx_message_scope"`
	ParentMessageID *uint `json:"parent_message_id" gorm:"index:idx_message_scope;index"`
	ConversationID  *uint `json:"conversation_id" gorm:"index:idx_message_scope"`
}

// ThreadSummary describes the replies of a message.
// Timestamp is the creation time of the latest reply in unix milliseconds.
type ThreadSummary struct {
	Count     int     `json:"count"`
	Image     *string `json:"image"`
	Timestamp int64   `json:"timestamp"`
}

// EnrichedMessage is the display shape of a message.
// Image here is a fetchable URL, not the storage reference kept on Message.
type EnrichedMessage struct {
	ID              uint           `json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	EditedAt        *time.Time     `json:"edited_at"`
	Body            datatypes.JSON `json:"body"`
	Image           *string        `json:"image"`
	MemberID        uint           `json:"member_id"`
	WorkspaceID     uint           `json:"workspace_id"`
	ChannelID       *uint          `json:"channel_id"`
	ParentMessageID *uint          `json:"parent_message_id"`
	ConversationID  *uint          `json:"conversation_id"`

	Member          Member            `json:"member"`
	User            Account           `json:"user"`
	Reactions       []ReactionSummary `json:"reactions"`
	ThreadCount     int               `json:"thread_count"`
	ThreadImage     *string           `json:"thread_image"`
	ThreadTimestamp int64             `json:"thread_timestamp"`
}
