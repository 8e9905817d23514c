package domain

import "time"

// User is the local account linked 1:1 to a Spotify identity.
type User struct {
	ID                          string     `json:"uuid" gorm:"primaryKey"`
	SpotifyID                   string     `json:"spotify_id" gorm:"uniqueIndex;not null"`
	SpotifyDisplayName          string     `json:"spotify_display_name"`
	SpotifyAvatarURL            string     `json:"spotify_avatar_url"`
	SpotifyEmail                *string    `json:"-" gorm:"uniqueIndex"`
	SpotifyCountry              string     `json:"-"`
	SpotifyFollowerCount        int        `json:"-"`
	SpotifyAccountHref          string     `json:"-"`
	SpotifyAccountURI           string     `json:"-"`
	SpotifyProduct              string     `json:"-"`
	SpotifyScope                *string    `json:"-"`
	SpotifyAccessToken          *string    `json:"-"` // Never return provider tokens in JSON
	SpotifyRefreshToken         *string    `json:"-"`
	SpotifyAccessTokenExpiresAt *time.Time `json:"-"`
	PersonalBlurb               string     `json:"personal_blurb"`
	CreatedAt                   time.Time  `json:"-"`
	UpdatedAt                   time.Time  `json:"-"`
}

// HasSpotifySession reports whether provider tokens are stored.
func (u *User) HasSpotifySession() bool {
	return u.SpotifyAccessToken != nil && *u.SpotifyAccessToken != ""
}

// SpotifyTokenExpired reports whether the stored access token expired before now.
func (u *User) SpotifyTokenExpired(now time.Time) bool {
	return u.SpotifyAccessTokenExpiresAt != nil && !u.SpotifyAccessTokenExpiresAt.After(now)
}

// ClearSpotifySession drops the provider tokens, as on logout.
func (u *User) ClearSpotifySession() {
	u.SpotifyAccessToken = nil
	u.SpotifyRefreshToken = nil
	u.SpotifyAccessTokenExpiresAt = nil
}
