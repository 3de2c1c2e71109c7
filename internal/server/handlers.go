package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotube/internal/services"
	"github.com/desertthunder/spotube/internal/shared"
	"github.com/desertthunder/spotube/internal/tasks"
)

// jsonResponse writes data as a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func errorResponse(w http.ResponseWriter, statusCode int, message string) {
	jsonResponse(w, statusCode, map[string]string{"error": message})
}

// OAuthService is the slice of the YouTube service the auth handler needs.
type OAuthService interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) error
}

// AuthHandler drives the three-legged OAuth flow for YouTube: /login
// redirects to Google's consent screen and /callback exchanges the returned
// authorization code for tokens.
type AuthHandler struct {
	oauth  OAuthService
	state  string
	logger *log.Logger
}

// NewAuthHandler creates an auth handler. The state token should be
// cryptographically random for CSRF protection; see [shared.GenerateState].
func NewAuthHandler(oauth OAuthService, state string, logger *log.Logger) *AuthHandler {
	return &AuthHandler{oauth: oauth, state: state, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{"/login", "/callback"}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/login":
		http.Redirect(w, r, h.oauth.AuthURL(h.state), http.StatusFound)
	case "/callback":
		h.callback(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	if state := r.URL.Query().Get("state"); state != h.state {
		h.logger.Warn("oauth callback rejected", "error", shared.ErrInvalidState)
		errorResponse(w, http.StatusBadRequest, "Invalid state parameter.")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		h.logger.Warn("oauth callback without code", "error", errParam)
		errorResponse(w, http.StatusBadRequest, "Authorization failed.")
		return
	}

	if err := h.oauth.Exchange(r.Context(), code); err != nil {
		h.logger.Error("oauth token exchange failed", "error", err)
		errorResponse(w, http.StatusInternalServerError, "Failed to authenticate with OAuth.")
		return
	}

	query := url.Values{"message": []string{"Authentication complete."}}
	http.Redirect(w, r, "/api?"+query.Encode(), http.StatusFound)
}

// Converter is the slice of the conversion engine the handler needs.
type Converter interface {
	Convert(ctx context.Context, playlistID string, progress chan<- tasks.ProgressUpdate) (*services.ConversionResult, error)
}

// ConvertHandler runs the playlist conversion workflow for
// GET /playlist/{id}.
type ConvertHandler struct {
	engine Converter
	logger *log.Logger
}

// NewConvertHandler creates a conversion handler backed by the given engine.
func NewConvertHandler(engine Converter, logger *log.Logger) *ConvertHandler {
	return &ConvertHandler{engine: engine, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *ConvertHandler) Routes() []string {
	return []string{"/playlist/{id}"}
}

func (h *ConvertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	playlistID := r.PathValue("id")
	if playlistID == "" {
		h.logger.Warn("conversion request rejected", "error", shared.ErrMissingArgument)
		errorResponse(w, http.StatusBadRequest, "Missing playlist id.")
		return
	}

	result, err := h.engine.Convert(r.Context(), playlistID, nil)
	if err != nil {
		h.logger.Error("conversion failed", "playlist", playlistID, "error", err)

		switch {
		case errors.Is(err, shared.ErrPlaylistNotFound):
			errorResponse(w, http.StatusNotFound, "Playlist not found. Check the ID or whether the playlist is public.")
		case errors.Is(err, shared.ErrUpstreamAuth):
			errorResponse(w, http.StatusUnauthorized, "Spotify token invalid or expired.")
		default:
			errorResponse(w, http.StatusInternalServerError, "Failed to convert playlist.")
		}
		return
	}

	jsonResponse(w, http.StatusOK, result)
}

// PlaylistLister is the slice of the YouTube service the listing handler needs.
type PlaylistLister interface {
	MyPlaylists(ctx context.Context) (json.RawMessage, error)
}

// Renewer triggers one credential renewal attempt; satisfied by
// [tasks.Refresher].
type Renewer interface {
	RefreshNow(ctx context.Context) error
}

// PlaylistsHandler lists the authenticated user's YouTube playlists for
// GET /youtube/playlists. When the provider rejects the access token, it
// renews once and retries the listing call once.
type PlaylistsHandler struct {
	youtube PlaylistLister
	renewer Renewer
	logger  *log.Logger
}

// NewPlaylistsHandler creates a listing handler backed by the given service
// and refresher.
func NewPlaylistsHandler(youtube PlaylistLister, renewer Renewer, logger *log.Logger) *PlaylistsHandler {
	return &PlaylistsHandler{youtube: youtube, renewer: renewer, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *PlaylistsHandler) Routes() []string {
	return []string{"/youtube/playlists"}
}

func (h *PlaylistsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, err := h.youtube.MyPlaylists(r.Context())

	if errors.Is(err, shared.ErrUpstreamAuth) && h.renewer != nil {
		h.logger.Info("access token expired, renewing")
		if rerr := h.renewer.RefreshNow(r.Context()); rerr == nil {
			raw, err = h.youtube.MyPlaylists(r.Context())
		}
	}

	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotAuthenticated):
			errorResponse(w, http.StatusUnauthorized, "Access token not available. Log in again.")
		case errors.Is(err, shared.ErrUpstreamAuth):
			errorResponse(w, http.StatusUnauthorized, "YouTube token invalid or expired.")
		default:
			h.logger.Error("failed to fetch playlists", "error", err)
			errorResponse(w, http.StatusInternalServerError, "Failed to fetch YouTube playlists.")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// LivenessHandler answers GET /api with a static message.
type LivenessHandler struct{}

// Routes returns the HTTP routes this handler serves.
func (h *LivenessHandler) Routes() []string {
	return []string{"/api"}
}

func (h *LivenessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{
		"message": "Backend is working with CORS enabled for all origins!",
	})
}
