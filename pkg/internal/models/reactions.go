package models

import "time"

// Reaction is one member using one value on one message.
// A member holds at most one reaction per value on a message, toggling removes it.
type Reaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	WorkspaceID uint   `json:"workspace_id" gorm:"index"`
	MessageID   uint   `json:"message_id" gorm:"uniqueIndex:idx_reaction_once"`
	MemberID    uint   `json:"member_id" gorm:"uniqueIndex:idx_reaction_once"`
	Value       string `json:"value" gorm:"uniqueIndex:idx_reaction_once;size:64"`
}

// ReactionSummary is every reaction with the same value on a message, rolled up.
type ReactionSummary struct {
	MessageID   uint   `json:"message_id"`
	WorkspaceID uint   `json:"workspace_id"`
	Value       string `json:"value"`
	Count       int    `json:"count"`
	MemberIDs   []uint `json:"member_ids"`
}
