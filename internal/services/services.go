// package services defines clients for the upstream music APIs
//
// Spotify (read side), YouTube Data API v3 (write side)
package services

import "context"

// Track is a read-only view of one Spotify playlist entry.
type Track struct {
	Name   string `json:"name"`
	Artist string `json:"artist"` // comma-joined contributing artist names
	Album  string `json:"album"`
}

// TrackLink is the outcome of attempting to place one Track into the new
// YouTube playlist. URL is nil when no matching video was found or the
// insertion failed.
type TrackLink struct {
	Name   string  `json:"name"`
	Artist string  `json:"artist"`
	URL    *string `json:"url"`
}

// ConversionResult is the final payload of a playlist conversion. Tracks
// mirrors the (truncated) source track order.
type ConversionResult struct {
	Message            string      `json:"message"`
	YouTubePlaylistURL string      `json:"youtubePlaylistUrl"`
	Tracks             []TrackLink `json:"tracks"`
}

// Source reads tracks from the originating music service.
type Source interface {
	// PlaylistTracks fetches the first page of tracks for a playlist,
	// preserving source order.
	PlaylistTracks(ctx context.Context, playlistID string) ([]Track, error)

	// Name returns the name of the service (e.g. "Spotify")
	Name() string
}

// Target creates and populates playlists on the destination service.
type Target interface {
	// CreatePlaylist creates a new private playlist and returns its id.
	CreatePlaylist(ctx context.Context, title, description string) (string, error)

	// SearchVideo returns the id of the single best matching video for a
	// free-text query, or shared.ErrTrackNotFound when nothing matches.
	SearchVideo(ctx context.Context, query string) (string, error)

	// InsertPlaylistItem appends a video to an existing playlist.
	InsertPlaylistItem(ctx context.Context, playlistID, videoID string) error

	// Name returns the name of the service (e.g. "YouTube")
	Name() string
}
