package models

type Channel struct {
	BaseModel

	Name        string `json:"name"`
	WorkspaceID uint   `json:"workspace_id" gorm:"index"`
}

// Conversation is a direct message scope between two members of one workspace.
type Conversation struct {
	BaseModel

	WorkspaceID uint `json:"workspace_id" gorm:"index"`
	MemberOneID uint `json:"member_one_id" gorm:"index"`
	MemberTwoID uint `json:"member_two_id" gorm:"index"`
}
