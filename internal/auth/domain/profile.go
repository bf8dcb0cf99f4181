package domain

import "time"

// Profile is a ProView user account.
// AvatarPath is the stored object path inside the avatar bucket; handlers
// resolve it to a public URL before returning it to clients.
type Profile struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null"`
	Password   string    `json:"-"` // Never return password in JSON
	Name       string    `json:"name"`
	AvatarPath string    `json:"avatar_url,omitempty" gorm:"column:avatar_url"`
	Provider   string    `json:"provider"` // "email" or "google"
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at"`
}
