package domain

import "errors"

var (
	ErrInvalidPage       = errors.New("invalid page")
	ErrInvalidPlaylistID = errors.New("invalid playlist id")
	ErrUpstream          = errors.New("upstream request failed")
)

const (
	MsgInvalidPageNumber = "Invalid page number"
	MsgPageNotPositive   = "Page number must be greater than 0"
)

// InvalidPageError carries the user-facing message for a bad page parameter.
type InvalidPageError struct {
	Message string
}

func (e *InvalidPageError) Error() string {
	return e.Message
}

func (e *InvalidPageError) Is(target error) bool {
	return target == ErrInvalidPage
}

// UpstreamError wraps a Spotify failure. Its message is the upstream message, unchanged.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
