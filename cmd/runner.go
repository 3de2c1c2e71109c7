package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotube/internal/credentials"
	"github.com/desertthunder/spotube/internal/server"
	"github.com/desertthunder/spotube/internal/services"
	"github.com/desertthunder/spotube/internal/shared"
	"github.com/desertthunder/spotube/internal/tasks"
	"github.com/urfave/cli/v3"
)

// outboundTimeout bounds every outbound call to the upstream APIs so an
// in-flight request can never stall indefinitely.
const outboundTimeout = 15 * time.Second

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: outboundTimeout}
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Serve wires up the services, credential refreshers, and HTTP handlers,
// then runs the server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.config
	if path := cmd.String("config"); path != "" {
		if loaded, err := shared.LoadConfig(path); err == nil {
			config = loaded
		} else {
			r.logger.Warnf("failed to load %s: %v", path, err)
		}
	}
	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = int(port)
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store := credentials.NewStore(config.Credentials.YouTube.RefreshToken)

	spotify := services.NewSpotifyService(
		config.Credentials.Spotify.ClientID,
		config.Credentials.Spotify.ClientSecret,
		store,
		r.httpClient,
	)
	youtube := services.NewYouTubeService(
		config.Credentials.Google.ClientID,
		config.Credentials.Google.ClientSecret,
		config.Credentials.Google.RedirectURI,
		config.Credentials.YouTube.APIKey,
		store,
		r.httpClient,
	)

	engine := tasks.NewConversionEngine(spotify, youtube, r.logger)

	spotifyRefresher := tasks.NewRefresher("spotify", tasks.SpotifyRefreshInterval, spotify.Refresh, r.logger)
	youtubeRefresher := tasks.NewRefresher("youtube", tasks.YouTubeRefreshInterval, youtube.Refresh, r.logger)

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger), server.CORS())
	router.Handler(server.NewAuthHandler(youtube, shared.GenerateState(), r.logger))
	router.Handler(server.NewConvertHandler(engine, r.logger))
	router.Handler(server.NewPlaylistsHandler(youtube, youtubeRefresher, r.logger))
	router.Handler(&server.LivenessHandler{})

	serveCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go spotifyRefresher.Run(serveCtx)
	go youtubeRefresher.Run(serveCtx)

	serverAddr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("server listening at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-serveCtx.Done():
		r.logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}

// ConfigInit writes the example configuration file for the user to fill in.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if path == "" {
		path = "config.toml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s already exists", shared.ErrInvalidInput, path)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.writePlain("✓ Configuration written to %s\n", path)
	return nil
}
