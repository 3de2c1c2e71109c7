package credentials

import (
	"fmt"
	"sync"
	"testing"
)

func TestStore(t *testing.T) {
	t.Run("Seeds Refresh Token", func(t *testing.T) {
		store := NewStore("configured-refresh")

		if got := store.YouTubeRefreshToken(); got != "configured-refresh" {
			t.Errorf("expected seeded refresh token, got %q", got)
		}
		if store.SpotifyToken() != "" {
			t.Error("expected empty Spotify slot")
		}
		if store.HasYouTubeAccess() {
			t.Error("expected no access token at startup")
		}
	})

	t.Run("Overwrites Slots Independently", func(t *testing.T) {
		store := NewStore("")

		store.SetSpotifyToken("spotify-token")
		store.SetYouTubeAccessToken("access-token")
		store.SetYouTubeRefreshToken("refresh-token")

		if got := store.SpotifyToken(); got != "spotify-token" {
			t.Errorf("unexpected Spotify token %q", got)
		}
		if got := store.YouTubeAccessToken(); got != "access-token" {
			t.Errorf("unexpected access token %q", got)
		}
		if got := store.YouTubeRefreshToken(); got != "refresh-token" {
			t.Errorf("unexpected refresh token %q", got)
		}
		if !store.HasYouTubeAccess() {
			t.Error("expected access token to be reported")
		}

		store.SetSpotifyToken("replacement")
		if got := store.SpotifyToken(); got != "replacement" {
			t.Errorf("expected overwrite, got %q", got)
		}
	})

	t.Run("Concurrent Readers And Writers", func(t *testing.T) {
		store := NewStore("seed")

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(2)
			go func(n int) {
				defer wg.Done()
				store.SetSpotifyToken(fmt.Sprintf("token-%d", n))
			}(i)
			go func() {
				defer wg.Done()
				_ = store.SpotifyToken()
				_ = store.HasYouTubeAccess()
			}()
		}
		wg.Wait()

		if store.SpotifyToken() == "" {
			t.Error("expected a token after concurrent writes")
		}
	})
}
