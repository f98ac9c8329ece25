package auth

import "time"

// RefreshToken maps an issued refresh token to its owner. Steady state
// holds at most one valid row per user: the token manager deletes any
// prior rows before persisting a new one.
type RefreshToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Token string `json:"-" gorm:"uniqueIndex;not null"`

	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
