package usecase

import (
	"context"
	"time"

	authdomain "noshuff-backend/internal/auth/domain"
	authdto "noshuff-backend/internal/auth/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

func (u *authUsecase) IssueSession(ctx context.Context, user *authdomain.User) (*authdto.TokenPair, error) {
	// Generate access token
	accessToken, err := u.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	// Generate refresh token
	tokenID := uuid.New().String()
	expiresAt := u.now().Add(u.config.JWTRefreshExpiry)
	refreshToken, err := u.generateRefreshToken(user, tokenID, expiresAt)
	if err != nil {
		return nil, err
	}

	// Store refresh token
	if err := u.tokenRepo.SaveOutstanding(ctx, &authdomain.OutstandingToken{
		TokenID:   tokenID,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: u.now(),
	}); err != nil {
		return nil, err
	}

	return &authdto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) Revoke(ctx context.Context, callerID, refreshToken string) error {
	if refreshToken == "" {
		return authdomain.ErrTokenNotProvided
	}

	outstanding, err := u.liveRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if callerID != "" && outstanding.UserID != callerID {
		return authdomain.ErrInvalidToken
	}

	added, err := u.tokenRepo.Blacklist(ctx, outstanding.TokenID, outstanding.ExpiresAt)
	if err != nil {
		return err
	}
	if !added {
		return authdomain.ErrInvalidToken
	}

	if err := u.userRepo.ClearSpotifyTokens(ctx, outstanding.UserID); err != nil {
		return err
	}

	u.logger.Info("user logged out", zap.String("user_id", outstanding.UserID))
	return nil
}

func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (*authdto.AccessTokenResponse, error) {
	if refreshToken == "" {
		return nil, authdomain.ErrTokenNotProvided
	}

	outstanding, err := u.liveRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, outstanding.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrInvalidToken
	}

	accessToken, err := u.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &authdto.AccessTokenResponse{AccessToken: accessToken}, nil
}

func (u *authUsecase) ValidateAccessToken(ctx context.Context, tokenString string) (*authdomain.User, error) {
	claims, err := u.parseToken(tokenString, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, authdomain.ErrInvalidToken
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}

	return user, nil
}

// liveRefreshToken verifies the signature, then checks the token is outstanding and not blacklisted.
func (u *authUsecase) liveRefreshToken(ctx context.Context, refreshToken string) (*authdomain.OutstandingToken, error) {
	claims, err := u.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	tokenID, ok := claims["jti"].(string)
	if !ok || tokenID == "" {
		return nil, authdomain.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, authdomain.ErrInvalidToken
	}

	outstanding, err := u.tokenRepo.FindOutstanding(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if outstanding == nil || outstanding.UserID != userID {
		return nil, authdomain.ErrInvalidToken
	}

	blacklisted, err := u.tokenRepo.IsBlacklisted(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, authdomain.ErrInvalidToken
	}

	return outstanding, nil
}

func (u *authUsecase) parseToken(tokenString, tokenType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(u.now))

	if err != nil || !token.Valid {
		return nil, authdomain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != tokenType {
		return nil, authdomain.ErrInvalidToken
	}
	return claims, nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User) (string, error) {
	now := u.now()
	claims := jwt.MapClaims{
		"user_id":    user.ID,
		"token_type": tokenTypeAccess,
		"exp":        now.Add(u.config.JWTAccessExpiry).Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) generateRefreshToken(user *authdomain.User, tokenID string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID,
		"token_type": tokenTypeRefresh,
		"jti":        tokenID,
		"exp":        expiresAt.Unix(),
		"iat":        u.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}
