package models

import (
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Page is one window of a cursor paginated listing.
// ContinueCursor is empty once IsDone is true.
type Page[T any] struct {
	Page           []T    `json:"page"`
	IsDone         bool   `json:"is_done"`
	ContinueCursor string `json:"continue_cursor"`
}

type PageOptions struct {
	NumItems int    `json:"num_items"`
	Cursor   string `json:"cursor"`
}
