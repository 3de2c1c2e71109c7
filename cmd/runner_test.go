package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/spotube/internal/shared"
	tu "github.com/desertthunder/spotube/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient == nil {
				t.Fatal("expected a default httpClient")
			}
		})

		t.Run("default httpClient has bounded timeout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.httpClient.Timeout == 0 {
				t.Error("expected default httpClient to carry a non-zero timeout")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for _, command := range commands {
			names[command.Name] = true
		}

		for _, want := range []string{"serve", "config"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("ConfigInit", func(t *testing.T) {
		t.Run("writes example config", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")

			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			app := &cli.Command{
				Name:     "spotube",
				Commands: runner.register(),
			}

			err := app.Run(context.Background(), []string{"spotube", "config", "init", "--output", path})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			tu.AssertFileExists(t, path)

			content := tu.MustReadFile(t, path)
			for _, section := range []string{"[credentials.spotify]", "[credentials.google]", "[server]"} {
				if !strings.Contains(content, section) {
					t.Errorf("expected config to contain %s", section)
				}
			}

			if !strings.Contains(output.String(), path) {
				t.Errorf("expected confirmation output, got %q", output.String())
			}
		})

		t.Run("refuses to overwrite", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			if err := os.WriteFile(path, []byte("# existing"), 0o644); err != nil {
				t.Fatalf("failed to seed file: %v", err)
			}

			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
			app := &cli.Command{
				Name:     "spotube",
				Commands: runner.register(),
			}

			err := app.Run(context.Background(), []string{"spotube", "config", "init", "--output", path})
			if err == nil {
				t.Fatal("expected error for existing file")
			}

			content, _ := os.ReadFile(path)
			if string(content) != "# existing" {
				t.Error("expected existing file to be untouched")
			}
		})
	})

	t.Run("Serve", func(t *testing.T) {
		t.Run("rejects incomplete configuration", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			app := &cli.Command{
				Name:     "spotube",
				Commands: runner.register(),
			}

			err := app.Run(context.Background(), []string{"spotube", "serve", "--config", ""})
			if err == nil {
				t.Fatal("expected error for missing credentials")
			}
			if !strings.Contains(err.Error(), "invalid configuration") {
				t.Errorf("unexpected error: %v", err)
			}
		})

		t.Run("logs unreadable config path", func(t *testing.T) {
			logs := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{
				Logger: shared.NewLogger(logs),
				Output: &bytes.Buffer{},
			})

			app := &cli.Command{
				Name:     "spotube",
				Commands: runner.register(),
			}

			missing := filepath.Join(t.TempDir(), "nope.toml")
			err := app.Run(context.Background(), []string{"spotube", "serve", "--config", missing})
			if err == nil {
				t.Fatal("expected error for missing credentials")
			}

			if !strings.Contains(logs.String(), "failed to load") {
				t.Errorf("expected a load failure log, got %q", logs.String())
			}
		})
	})
}
