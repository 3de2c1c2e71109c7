// Spotify API implementation of [Source]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/spotube/internal/credentials"
	"github.com/desertthunder/spotube/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Outbound calls carry a bounded timeout so an in-flight request can
	// never stall indefinitely.
	defaultHTTPTimeout = 15 * time.Second
)

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	Album   SpotifyAlbum    `json:"album"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
type SpotifyPlaylistTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifyPaginatedTracks represents one page of a playlist's tracks.
type SpotifyPaginatedTracks struct {
	Items []SpotifyPlaylistTrack `json:"items"`
	Total int                    `json:"total"`
	Next  *string                `json:"next"`
}

// SpotifyService implements [Source] for the Spotify Web API. App-level
// authentication uses the OAuth2 client-credentials grant via
// [clientcredentials.Config]; the resulting token lives in the shared
// credential store.
type SpotifyService struct {
	conf       *clientcredentials.Config
	store      *credentials.Store
	httpClient *http.Client
	baseURL    string
}

// NewSpotifyService creates a new Spotify service with the given app
// credentials, writing tokens to the provided store.
func NewSpotifyService(clientID, clientSecret string, store *credentials.Store, httpClient *http.Client) *SpotifyService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	return &SpotifyService{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyTokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		store:      store,
		httpClient: httpClient,
		baseURL:    spotifyBaseURL,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Refresh performs a client-credentials token request and overwrites the
// Spotify slot of the credential store on success. On failure the prior
// token (possibly empty) stays in place and the error is returned for the
// caller to log.
func (s *SpotifyService) Refresh(ctx context.Context) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.conf.Token(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	s.store.SetSpotifyToken(token.AccessToken)
	return nil
}

// PlaylistTracks fetches the first page of tracks for the playlist and maps
// each item to a [Track]. The artist field joins every contributing artist
// name with ", ".
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]Track, error) {
	endpoint := fmt.Sprintf("%s/playlists/%s/tracks", s.baseURL, playlistID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.store.SpotifyToken())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: spotify status %d", shared.ErrUpstreamAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrPlaylistNotFound, playlistID)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var page SpotifyPaginatedTracks
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	tracks := make([]Track, 0, len(page.Items))
	for _, item := range page.Items {
		names := make([]string, 0, len(item.Track.Artists))
		for _, artist := range item.Track.Artists {
			names = append(names, artist.Name)
		}

		tracks = append(tracks, Track{
			Name:   item.Track.Name,
			Artist: strings.Join(names, ", "),
			Album:  item.Track.Album.Name,
		})
	}

	return tracks, nil
}
