package dto

import authdomain "noshuff-backend/internal/auth/domain"

type RefreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

type UpdateCurrentUserRequest struct {
	PersonalBlurb *string `json:"personal_blurb" binding:"omitempty,max=500"`
}

// TokenPair is the session issued after a successful callback.
type TokenPair struct {
	AccessToken  string           `json:"access"`
	RefreshToken string           `json:"refresh"`
	User         *authdomain.User `json:"user"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}
