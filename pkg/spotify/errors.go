package spotify

import (
	"errors"

	spotifyapi "github.com/zmb3/spotify/v2"
)

var (
	ErrAuthExchange = errors.New("spotify: authorization exchange failed")
	ErrRemoteAPI    = errors.New("spotify: api request failed")
)

// RemoteError is a failed Web API call. Error returns the upstream message unchanged.
type RemoteError struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteAPI
}

func remoteError(op string, err error) error {
	var apiErr spotifyapi.Error
	if errors.As(err, &apiErr) {
		return &RemoteError{Op: op, Status: apiErr.Status, Message: apiErr.Message}
	}
	return &RemoteError{Op: op, Message: err.Error()}
}
