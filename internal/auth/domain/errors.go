package domain

import "errors"

var (
	ErrTokenNotProvided = errors.New("refresh token not provided")
	ErrInvalidToken     = errors.New("token is invalid or expired")
	ErrInvalidState     = errors.New("invalid oauth state")
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateUser    = errors.New("user already exists")
	ErrSpotifyNotLinked = errors.New("spotify account is not linked")
)
