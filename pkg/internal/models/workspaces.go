package models

import "time"

type Workspace struct {
	BaseModel

	Name      string `json:"name"`
	JoinCode  string `json:"join_code" gorm:"size:6"`
	AccountID uint   `json:"account_id"`
}

// WorkspaceInfo is what a non-member may learn about a workspace before joining it.
type WorkspaceInfo struct {
	Name     string `json:"name"`
	IsMember bool   `json:"is_member"`
}

type MemberRole = string

const (
	MemberRoleAdmin  = MemberRole("admin")
	MemberRoleMember = MemberRole("member")
)

// Member links an account to a workspace.
// The (workspace, account) pair is unique and is the key every permission check uses.
// Members are link records and are never soft deleted.
type Member struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	WorkspaceID uint       `json:"workspace_id" gorm:"uniqueIndex:idx_member_workspace_account"`
	AccountID   uint       `json:"account_id" gorm:"uniqueIndex:idx_member_workspace_account;index"`
	Role        MemberRole `json:"role" gorm:"size:16"`
}

func (v Member) IsAdmin() bool {
	return v.Role == MemberRoleAdmin
}

type MemberWithAccount struct {
	Member
	User Account `json:"user"`
}
