// package fakes contains test doubles for the service interfaces
package fakes

import (
	"context"

	"github.com/desertthunder/spotube/internal/services"
)

// FakeSource is a test double for [services.Source].
type FakeSource struct {
	Tracks []services.Track
	Err    error
	Calls  []string
}

func (f *FakeSource) PlaylistTracks(ctx context.Context, playlistID string) ([]services.Track, error) {
	f.Calls = append(f.Calls, playlistID)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Tracks, nil
}

func (f *FakeSource) Name() string { return "fake-source" }

// FakeTarget is a test double for [services.Target]. Per-operation errors
// and recorded calls let tests exercise partial-failure paths.
type FakeTarget struct {
	PlaylistID string
	VideoID    string

	CreateErr error
	SearchErr func(query string) error
	InsertErr func(videoID string) error

	CreateCalls []string
	SearchCalls []string
	InsertCalls []string
}

func (f *FakeTarget) CreatePlaylist(ctx context.Context, title, description string) (string, error) {
	f.CreateCalls = append(f.CreateCalls, title)
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	return f.PlaylistID, nil
}

func (f *FakeTarget) SearchVideo(ctx context.Context, query string) (string, error) {
	f.SearchCalls = append(f.SearchCalls, query)
	if f.SearchErr != nil {
		if err := f.SearchErr(query); err != nil {
			return "", err
		}
	}
	return f.VideoID, nil
}

func (f *FakeTarget) InsertPlaylistItem(ctx context.Context, playlistID, videoID string) error {
	f.InsertCalls = append(f.InsertCalls, videoID)
	if f.InsertErr != nil {
		return f.InsertErr(videoID)
	}
	return nil
}

func (f *FakeTarget) Name() string { return "fake-target" }
