// package credentials holds the process-wide credential state shared by the
// background refreshers and the request handlers.
//
// Nothing here is persisted: every slot starts empty (except the YouTube
// refresh token, which is seeded from configuration) and is discarded when
// the process exits. Staleness is only discovered when an upstream call is
// rejected.
package credentials

import "sync"

// Store holds the three bearer token slots in memory. Refreshers overwrite
// whole slots and readers copy whole slots, so a reader always observes a
// complete token value.
type Store struct {
	mu        sync.RWMutex
	spotify   string
	ytAccess  string
	ytRefresh string
}

// NewStore creates a Store seeded with the configured YouTube refresh token.
// The other slots stay empty until the refreshers or the OAuth callback
// populate them.
func NewStore(youtubeRefreshToken string) *Store {
	return &Store{ytRefresh: youtubeRefreshToken}
}

// SpotifyToken returns the current Spotify app token, possibly empty.
func (s *Store) SpotifyToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spotify
}

// SetSpotifyToken overwrites the Spotify app token slot.
func (s *Store) SetSpotifyToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spotify = token
}

// YouTubeAccessToken returns the current user-level YouTube access token,
// possibly empty.
func (s *Store) YouTubeAccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ytAccess
}

// SetYouTubeAccessToken overwrites the YouTube access token slot.
func (s *Store) SetYouTubeAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ytAccess = token
}

// YouTubeRefreshToken returns the long-lived refresh token supplied via
// configuration or a completed OAuth flow.
func (s *Store) YouTubeRefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ytRefresh
}

// SetYouTubeRefreshToken overwrites the refresh token slot. Called when a
// consent flow returns a fresh refresh token; this system never rotates it
// on its own.
func (s *Store) SetYouTubeRefreshToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ytRefresh = token
}

// HasYouTubeAccess reports whether a user-level YouTube token is available.
// Handlers treat false as "not authenticated" and skip the upstream call.
func (s *Store) HasYouTubeAccess() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ytAccess != ""
}
