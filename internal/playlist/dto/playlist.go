package dto

type PlaylistSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url"`
	TrackCount  int     `json:"track_count"`
}

type TrackSummary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	DurationMs    int      `json:"duration_ms"`
	Artists       []string `json:"artists"`
	Album         string   `json:"album"`
	AlbumImageURL *string  `json:"album_image_url"`
}

type PlaylistDetail struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Owner       string         `json:"owner"`
	Followers   int            `json:"followers"`
	TotalTracks int            `json:"total_tracks"`
	ImageURL    *string        `json:"image_url"`
	Tracks      []TrackSummary `json:"tracks"`
}

// PlaylistDetailPage is the paginated envelope returned by the playlist detail endpoint.
type PlaylistDetailPage struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  PlaylistDetail `json:"results"`
}
