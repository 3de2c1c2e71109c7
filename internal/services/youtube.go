// YouTube Data API v3 implementation of [Target]
//
// User-level writes (playlists, playlistItems) authorize with the OAuth2
// access token held in the credential store; search authorizes with the
// configured API key. https://developers.google.com/youtube/v3/docs
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/spotube/internal/credentials"
	"github.com/desertthunder/spotube/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const youtubeBaseURL = "https://www.googleapis.com/youtube/v3"

// youtubeScopes grant read/write access to the user's playlists.
var youtubeScopes = []string{
	"https://www.googleapis.com/auth/youtube",
	"https://www.googleapis.com/auth/youtube.force-ssl",
}

// YouTubeSnippet is the snippet resource shared by playlist and search
// responses.
type YouTubeSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type youtubeResourceID struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

type youtubeSearchItem struct {
	ID      youtubeResourceID `json:"id"`
	Snippet YouTubeSnippet    `json:"snippet"`
}

type youtubeSearchPage struct {
	Items []youtubeSearchItem `json:"items"`
}

// YouTubeService implements [Target] for the YouTube Data API. It also owns
// the three-legged OAuth flow that produces the user-level token and the
// refresh-token grant that renews it.
type YouTubeService struct {
	config     *oauth2.Config
	apiKey     string
	store      *credentials.Store
	httpClient *http.Client
	baseURL    string
}

// NewYouTubeService creates a new YouTube service using the given Google
// OAuth client and Data API key, reading and writing tokens through the
// provided store.
func NewYouTubeService(clientID, clientSecret, redirectURI, apiKey string, store *credentials.Store, httpClient *http.Client) *YouTubeService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	return &YouTubeService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       youtubeScopes,
			Endpoint:     google.Endpoint,
		},
		apiKey:     apiKey,
		store:      store,
		httpClient: httpClient,
		baseURL:    youtubeBaseURL,
	}
}

func (y *YouTubeService) Name() string {
	return "YouTube"
}

// AuthURL returns the Google consent URL for the authorization-code grant.
// Offline access plus forced consent ensures a refresh token is issued even
// on repeat logins.
func (y *YouTubeService) AuthURL(state string) string {
	return y.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for tokens and stores them. The
// refresh token slot is only overwritten when the provider issues one.
func (y *YouTubeService) Exchange(ctx context.Context, code string) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, y.httpClient)

	token, err := y.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: token exchange rejected: %v", shared.ErrAPIRequest, err)
	}

	y.store.SetYouTubeAccessToken(token.AccessToken)
	if token.RefreshToken != "" {
		y.store.SetYouTubeRefreshToken(token.RefreshToken)
	}

	return nil
}

// Refresh performs a refresh-token grant and overwrites the access token
// slot on success. On failure the prior token stays in place and the error
// is returned for the caller to log.
func (y *YouTubeService) Refresh(ctx context.Context) error {
	refreshToken := y.store.YouTubeRefreshToken()
	if refreshToken == "" {
		return fmt.Errorf("%w: no refresh token configured", shared.ErrRefreshFailed)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, y.httpClient)

	source := y.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	y.store.SetYouTubeAccessToken(token.AccessToken)
	return nil
}

// doRequest performs an HTTP request against the Data API. A non-nil body is
// sent as JSON; a non-nil result receives the decoded response. bearer
// selects user-token authorization, otherwise the API key query parameter is
// used.
func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, query url.Values, body, result any, bearer bool) error {
	if query == nil {
		query = url.Values{}
	}
	if !bearer {
		query.Set("key", y.apiKey)
	}

	apiURL := y.baseURL + endpoint + "?" + query.Encode()

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if bearer {
		req.Header.Set("Authorization", "Bearer "+y.store.YouTubeAccessToken())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: youtube status %d", shared.ErrUpstreamAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: youtube status %d", shared.ErrPlaylistNotFound, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: youtube status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// CreatePlaylist creates a new private playlist and returns its id.
func (y *YouTubeService) CreatePlaylist(ctx context.Context, title, description string) (string, error) {
	payload := map[string]any{
		"snippet": map[string]string{
			"title":       title,
			"description": description,
		},
		"status": map[string]string{
			"privacyStatus": "private",
		},
	}

	var created struct {
		ID string `json:"id"`
	}

	query := url.Values{"part": []string{"snippet,status"}}
	if err := y.doRequest(ctx, http.MethodPost, "/playlists", query, payload, &created, true); err != nil {
		return "", err
	}

	return created.ID, nil
}

// SearchVideo returns the id of the single best matching video for the
// query, or shared.ErrTrackNotFound when the result set is empty.
func (y *YouTubeService) SearchVideo(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"part":       []string{"snippet"},
		"q":          []string{query},
		"maxResults": []string{"1"},
	}

	var page youtubeSearchPage
	if err := y.doRequest(ctx, http.MethodGet, "/search", params, nil, &page, false); err != nil {
		return "", err
	}

	if len(page.Items) == 0 || page.Items[0].ID.VideoID == "" {
		return "", fmt.Errorf("%w: no video for %q", shared.ErrTrackNotFound, query)
	}

	return page.Items[0].ID.VideoID, nil
}

// InsertPlaylistItem appends a video to the playlist.
func (y *YouTubeService) InsertPlaylistItem(ctx context.Context, playlistID, videoID string) error {
	payload := map[string]any{
		"snippet": map[string]any{
			"playlistId": playlistID,
			"resourceId": map[string]string{
				"kind":    "youtube#video",
				"videoId": videoID,
			},
		},
	}

	query := url.Values{"part": []string{"snippet"}}
	return y.doRequest(ctx, http.MethodPost, "/playlistItems", query, payload, nil, true)
}

// MyPlaylists lists the playlists owned by the authenticated user, returning
// the provider's response untouched. Reports shared.ErrNotAuthenticated
// without calling upstream when no access token is available.
func (y *YouTubeService) MyPlaylists(ctx context.Context) (json.RawMessage, error) {
	if !y.store.HasYouTubeAccess() {
		return nil, shared.ErrNotAuthenticated
	}

	params := url.Values{
		"part": []string{"snippet,contentDetails"},
		"mine": []string{"true"},
	}

	var raw json.RawMessage
	if err := y.doRequest(ctx, http.MethodGet, "/playlists", params, nil, &raw, true); err != nil {
		return nil, err
	}

	return raw, nil
}
