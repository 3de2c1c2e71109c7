// package tasks implements the playlist conversion workflow and the
// background credential refresh jobs.
//
// The core abstraction is ConversionEngine, which recreates a Spotify
// playlist on YouTube. Operations emit progress updates via channels for
// non-blocking status reporting to outer layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotube/internal/services"
	"github.com/desertthunder/spotube/internal/shared"
)

const (
	// maxTracks caps how many source tracks one conversion considers,
	// regardless of playlist size.
	maxTracks = 10

	conversionMessage = "Playlist successfully created on YouTube!"

	watchURLFormat    = "https://www.youtube.com/watch?v=%s"
	playlistURLFormat = "https://www.youtube.com/playlist?list=%s"
)

// ConversionEngine recreates Spotify playlists on YouTube.
type ConversionEngine struct {
	source services.Source
	target services.Target
	logger *log.Logger
}

// NewConversionEngine creates a new ConversionEngine with the provided
// services.
func NewConversionEngine(source services.Source, target services.Target, logger *log.Logger) *ConversionEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &ConversionEngine{
		source: source,
		target: target,
		logger: logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls the workflow.
func (e *ConversionEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Convert fetches the playlist's tracks from Spotify, creates a new private
// YouTube playlist, and sequentially searches for and inserts each track.
//
// The destination playlist is created exactly once, before any track search,
// so a failed track phase still leaves a (possibly empty) playlist behind.
// Track-level failures are contained: they produce a nil-URL [services.TrackLink]
// and the loop moves on. Failures fetching the playlist or creating the
// destination abort the whole conversion.
func (e *ConversionEngine) Convert(ctx context.Context, playlistID string, progress chan<- ProgressUpdate) (*services.ConversionResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if e.target == nil {
		return nil, fmt.Errorf("%w: YouTube service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchingSourceUpdate(playlistID))

	tracks, err := e.source.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	if len(tracks) > maxTracks {
		tracks = tracks[:maxTracks]
	}

	e.sendProgress(progress, foundTracksUpdate(len(tracks)))
	e.sendProgress(progress, createDestinationUpdate())

	title := fmt.Sprintf("Playlist based on Spotify: %s", playlistID)
	description := "Automatically created from a Spotify playlist."

	destID, err := e.target.CreatePlaylist(ctx, title, description)
	if err != nil {
		return nil, err
	}

	e.logger.Info("created destination playlist", "playlist", destID)
	e.sendProgress(progress, createdDestinationUpdate(destID))

	links := make([]services.TrackLink, len(tracks))
	for i, track := range tracks {
		e.sendProgress(progress, searchTrackUpdate(i+1, len(tracks), track))
		links[i] = e.placeTrack(ctx, destID, track)
	}

	return &services.ConversionResult{
		Message:            conversionMessage,
		YouTubePlaylistURL: fmt.Sprintf(playlistURLFormat, destID),
		Tracks:             links,
	}, nil
}

// placeTrack searches YouTube for one track and inserts the first match into
// the destination playlist. Every failure mode yields a nil-URL link; none
// aborts the batch.
func (e *ConversionEngine) placeTrack(ctx context.Context, destID string, track services.Track) services.TrackLink {
	link := services.TrackLink{Name: track.Name, Artist: track.Artist}

	query := strings.TrimSpace(fmt.Sprintf("%s %s %s", track.Name, track.Artist, track.Album))

	videoID, err := e.target.SearchVideo(ctx, query)
	if err != nil {
		if errors.Is(err, shared.ErrTrackNotFound) {
			e.logger.Warn("no video found", "track", track.Name)
		} else {
			e.logger.Warn("search failed", "track", track.Name, "error", err)
		}
		return link
	}

	if err := e.target.InsertPlaylistItem(ctx, destID, videoID); err != nil {
		e.logger.Warn("failed to add video to playlist", "track", track.Name, "video", videoID, "error", err)
		return link
	}

	url := fmt.Sprintf(watchURLFormat, videoID)
	link.URL = &url
	return link
}
