package repository

import (
	"context"
	"time"

	authdomain "noshuff-backend/internal/auth/domain"
)

// UserRepository defines the interface for local user persistence
type UserRepository interface {
	Create(ctx context.Context, user *authdomain.User) error
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
	FindBySpotifyID(ctx context.Context, spotifyID string) (*authdomain.User, error)
	Update(ctx context.Context, user *authdomain.User) error
	UpdateBlurb(ctx context.Context, id, blurb string) error
	ClearSpotifyTokens(ctx context.Context, id string) error
}

// TokenRepository tracks issued refresh tokens and their revocation
type TokenRepository interface {
	SaveOutstanding(ctx context.Context, token *authdomain.OutstandingToken) error
	FindOutstanding(ctx context.Context, tokenID string) (*authdomain.OutstandingToken, error)
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)
	// Blacklist reports false when the token was already blacklisted.
	Blacklist(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// StateRepository stores pending OAuth states
type StateRepository interface {
	Save(ctx context.Context, state *authdomain.OAuthState) error
	// Consume deletes a live state and reports whether it existed.
	Consume(ctx context.Context, state string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
