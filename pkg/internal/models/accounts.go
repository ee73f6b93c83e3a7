package models

// Account is an externally authenticated identity.
// It is linked on the first request that carries a valid token for it.
type Account struct {
	BaseModel

	ExternalID string  `json:"external_id" gorm:"uniqueIndex;size:128"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Image      *string `json:"image"`
}
