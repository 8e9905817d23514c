package domain

import (
	"time"

	"noshuff-backend/pkg/spotify"
)

// ProviderFields is everything a login overwrites on the local user.
type ProviderFields struct {
	SpotifyID            string
	DisplayName          string
	Email                *string
	AvatarURL            string
	Country              string
	FollowerCount        int
	AccountHref          string
	AccountURI           string
	Product              string
	Scope                *string
	AccessToken          *string
	RefreshToken         *string
	AccessTokenExpiresAt *time.Time
}

// ProviderFieldsFrom derives the stored fields from a profile and the token it was fetched with.
func ProviderFieldsFrom(profile *spotify.Profile, token *spotify.Token, now time.Time) ProviderFields {
	avatar := ""
	if len(profile.ImageURLs) > 0 {
		avatar = profile.ImageURLs[0]
	}
	expiresAt := now.Add(time.Duration(token.ExpiresIn) * time.Second)

	return ProviderFields{
		SpotifyID:            profile.ID,
		DisplayName:          profile.DisplayName,
		Email:                optional(profile.Email),
		AvatarURL:            avatar,
		Country:              profile.Country,
		FollowerCount:        profile.FollowerCount,
		AccountHref:          profile.Href,
		AccountURI:           profile.URI,
		Product:              profile.Product,
		Scope:                optional(token.Scope),
		AccessToken:          optional(token.AccessToken),
		RefreshToken:         optional(token.RefreshToken),
		AccessTokenExpiresAt: &expiresAt,
	}
}

// ApplyTo overwrites every provider-linked and session-linked field of u.
func (f ProviderFields) ApplyTo(u *User) {
	u.SpotifyID = f.SpotifyID
	u.SpotifyDisplayName = f.DisplayName
	u.SpotifyEmail = f.Email
	u.SpotifyAvatarURL = f.AvatarURL
	u.SpotifyCountry = f.Country
	u.SpotifyFollowerCount = f.FollowerCount
	u.SpotifyAccountHref = f.AccountHref
	u.SpotifyAccountURI = f.AccountURI
	u.SpotifyProduct = f.Product
	u.SpotifyScope = f.Scope
	u.SpotifyAccessToken = f.AccessToken
	u.SpotifyRefreshToken = f.RefreshToken
	u.SpotifyAccessTokenExpiresAt = f.AccessTokenExpiresAt
}

// ApplyToken stores a refreshed provider token. An empty refresh token keeps the current one.
func (u *User) ApplyToken(token *spotify.Token, now time.Time) {
	expiresAt := now.Add(time.Duration(token.ExpiresIn) * time.Second)
	u.SpotifyAccessToken = optional(token.AccessToken)
	if token.RefreshToken != "" {
		u.SpotifyRefreshToken = optional(token.RefreshToken)
	}
	u.SpotifyAccessTokenExpiresAt = &expiresAt
	if token.Scope != "" {
		u.SpotifyScope = optional(token.Scope)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
