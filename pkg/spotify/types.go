package spotify

import (
	"time"

	spotifyapi "github.com/zmb3/spotify/v2"
)

// Token is the provider's OAuth reply.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	Scope        string
}

// Profile is the subset of GET /me the service keeps.
type Profile struct {
	ID            string
	DisplayName   string
	Email         string
	Country       string
	Product       string
	Href          string
	URI           string
	FollowerCount int
	ImageURLs     []string
}

type Playlist struct {
	ID            string
	Name          string
	Description   string
	OwnerID       string
	Collaborative bool
	ImageURL      *string
	TrackCount    int
}

type PlaylistMeta struct {
	ID          string
	Name        string
	Description string
	OwnerName   string
	Followers   int
	ImageURL    *string
}

type Track struct {
	ID            string
	Name          string
	DurationMs    int
	Artists       []string
	Album         string
	AlbumImageURL *string
}

// PlaylistPage is one window of a playlist. Total is the provider's count, including items dropped from Tracks.
type PlaylistPage struct {
	Playlist PlaylistMeta
	Tracks   []Track
	Total    int
}

// OwnedPlaylistsResult degrades to an empty list when any page fails; Err records why.
type OwnedPlaylistsResult struct {
	Playlists []Playlist
	Err       error
}

func (r OwnedPlaylistsResult) Degraded() bool {
	return r.Err != nil
}

func firstImageURL(images []spotifyapi.Image) *string {
	if len(images) == 0 || images[0].URL == "" {
		return nil
	}
	url := images[0].URL
	return &url
}

func expiresIn(expiry time.Time, now time.Time) int {
	if expiry.IsZero() {
		return 0
	}
	return int(expiry.Sub(now).Round(time.Second) / time.Second)
}

func profileFromUser(u *spotifyapi.PrivateUser) *Profile {
	images := make([]string, 0, len(u.Images))
	for _, img := range u.Images {
		images = append(images, img.URL)
	}
	return &Profile{
		ID:            u.ID,
		DisplayName:   u.DisplayName,
		Email:         u.Email,
		Country:       u.Country,
		Product:       u.Product,
		Href:          u.Endpoint,
		URI:           string(u.URI),
		FollowerCount: int(u.Followers.Count),
		ImageURLs:     images,
	}
}

func playlistFromSimple(p spotifyapi.SimplePlaylist) Playlist {
	return Playlist{
		ID:            string(p.ID),
		Name:          p.Name,
		Description:   p.Description,
		OwnerID:       p.Owner.ID,
		Collaborative: p.Collaborative,
		ImageURL:      firstImageURL(p.Images),
		TrackCount:    int(p.Tracks.Total),
	}
}

func trackFromFull(t *spotifyapi.FullTrack) Track {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	return Track{
		ID:            string(t.ID),
		Name:          t.Name,
		DurationMs:    int(t.Duration),
		Artists:       artists,
		Album:         t.Album.Name,
		AlbumImageURL: firstImageURL(t.Album.Images),
	}
}
