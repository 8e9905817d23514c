package domain

import "time"

// OutstandingToken records every refresh token issued, keyed by its jti claim.
type OutstandingToken struct {
	TokenID   string    `gorm:"primaryKey"`
	UserID    string    `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// BlacklistedToken permanently rejects a refresh token after logout.
type BlacklistedToken struct {
	TokenID       string    `gorm:"primaryKey"`
	ExpiresAt     time.Time `gorm:"not null"`
	BlacklistedAt time.Time `gorm:"not null"`
}

// OAuthState is a pending authorization flow awaiting its callback.
type OAuthState struct {
	State     string    `gorm:"primaryKey"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (OAuthState) TableName() string {
	return "oauth_states"
}
