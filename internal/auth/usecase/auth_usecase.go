package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	authdomain "noshuff-backend/internal/auth/domain"
	authdto "noshuff-backend/internal/auth/dto"
	"noshuff-backend/internal/auth/repository"
	"noshuff-backend/pkg/config"
	"noshuff-backend/pkg/spotify"

	"go.uber.org/zap"
)

const stateBytes = 32

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	stateRepo repository.StateRepository
	spotify   SpotifyAuthenticator
	config    *config.Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	stateRepo repository.StateRepository,
	spotifyClient SpotifyAuthenticator,
	cfg *config.Config,
	logger *zap.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		stateRepo: stateRepo,
		spotify:   spotifyClient,
		config:    cfg,
		logger:    logger.Named("auth"),
		now:       time.Now,
	}
}

func (u *authUsecase) BeginLogin(ctx context.Context) (string, string, error) {
	state, err := randomState()
	if err != nil {
		return "", "", err
	}

	now := u.now()
	if err := u.stateRepo.Save(ctx, &authdomain.OAuthState{
		State:     state,
		ExpiresAt: now.Add(u.config.OAuthStateTTL),
		CreatedAt: now,
	}); err != nil {
		return "", "", fmt.Errorf("save oauth state: %w", err)
	}

	return u.spotify.AuthCodeURL(state), state, nil
}

func (u *authUsecase) CompleteLogin(ctx context.Context, code, state, expectedState string) (*authdto.TokenPair, error) {
	if state == "" || subtle.ConstantTimeCompare([]byte(state), []byte(expectedState)) != 1 {
		return nil, authdomain.ErrInvalidState
	}
	ok, err := u.stateRepo.Consume(ctx, state, u.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, authdomain.ErrInvalidState
	}

	if code == "" {
		return nil, fmt.Errorf("%w: missing code", spotify.ErrAuthExchange)
	}
	token, err := u.spotify.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := u.spotify.CurrentProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	user, err := u.UpsertFromProviderData(ctx, profile, token)
	if err != nil {
		return nil, err
	}

	u.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("spotify_id", user.SpotifyID))
	return u.IssueSession(ctx, user)
}

func (u *authUsecase) UpsertFromProviderData(ctx context.Context, profile *spotify.Profile, token *spotify.Token) (*authdomain.User, error) {
	fields := authdomain.ProviderFieldsFrom(profile, token, u.now())

	user, err := u.userRepo.FindBySpotifyID(ctx, fields.SpotifyID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		// Create new user
		user = &authdomain.User{}
		fields.ApplyTo(user)
		err := u.userRepo.Create(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, authdomain.ErrDuplicateUser) {
			return nil, err
		}

		// A concurrent callback created the row first.
		user, err = u.userRepo.FindBySpotifyID(ctx, fields.SpotifyID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, authdomain.ErrDuplicateUser
		}
	}

	// Update existing user info
	fields.ApplyTo(user)
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) UpdateBlurb(ctx context.Context, user *authdomain.User, blurb *string) (*authdomain.User, error) {
	if blurb == nil {
		return user, nil
	}
	if err := u.userRepo.UpdateBlurb(ctx, user.ID, *blurb); err != nil {
		return nil, err
	}
	user.PersonalBlurb = *blurb
	return user, nil
}

func (u *authUsecase) SpotifyAccessToken(ctx context.Context, user *authdomain.User) (string, error) {
	if !user.HasSpotifySession() {
		return "", authdomain.ErrSpotifyNotLinked
	}

	now := u.now()
	if !user.SpotifyTokenExpired(now) {
		return *user.SpotifyAccessToken, nil
	}
	if user.SpotifyRefreshToken == nil {
		return "", authdomain.ErrSpotifyNotLinked
	}

	token, err := u.spotify.Refresh(ctx, *user.SpotifyRefreshToken)
	if err != nil {
		u.logger.Warn("spotify token refresh failed", zap.String("user_id", user.ID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", authdomain.ErrSpotifyNotLinked, err)
	}

	user.ApplyToken(token, now)
	if err := u.userRepo.Update(ctx, user); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

func randomState() (string, error) {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
