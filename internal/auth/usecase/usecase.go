package usecase

import (
	"context"

	authdomain "noshuff-backend/internal/auth/domain"
	authdto "noshuff-backend/internal/auth/dto"
	"noshuff-backend/pkg/spotify"
)

// AuthUsecase defines the interface for login, session and profile business logic
type AuthUsecase interface {
	// BeginLogin stores a fresh OAuth state and returns the provider authorize URL carrying it
	BeginLogin(ctx context.Context) (authURL, state string, err error)

	// CompleteLogin verifies state, exchanges the code, upserts the user and issues a session
	CompleteLogin(ctx context.Context, code, state, expectedState string) (*authdto.TokenPair, error)

	// UpsertFromProviderData creates or overwrites the user keyed on the Spotify id
	UpsertFromProviderData(ctx context.Context, profile *spotify.Profile, token *spotify.Token) (*authdomain.User, error)

	// IssueSession mints an access/refresh pair and records the refresh token as outstanding
	IssueSession(ctx context.Context, user *authdomain.User) (*authdto.TokenPair, error)

	// Revoke blacklists a refresh token owned by callerID and clears the user's Spotify tokens
	Revoke(ctx context.Context, callerID, refreshToken string) error

	// Refresh mints a new access token from a live refresh token
	Refresh(ctx context.Context, refreshToken string) (*authdto.AccessTokenResponse, error)

	// ValidateAccessToken resolves the user an access token was issued to
	ValidateAccessToken(ctx context.Context, token string) (*authdomain.User, error)

	// UpdateBlurb changes the user's personal blurb; nil leaves it untouched
	UpdateBlurb(ctx context.Context, user *authdomain.User, blurb *string) (*authdomain.User, error)

	// SpotifyAccessToken returns a usable provider access token, refreshing and persisting it when expired
	SpotifyAccessToken(ctx context.Context, user *authdomain.User) (string, error)
}

// SpotifyAuthenticator is the slice of the Spotify client the auth flow needs
type SpotifyAuthenticator interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*spotify.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*spotify.Token, error)
	CurrentProfile(ctx context.Context, accessToken string) (*spotify.Profile, error)
}
