package shared

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("Writes To Provided Writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)

		logger.Info("hello", "key", "value")

		output := buf.String()
		if !strings.Contains(output, "hello") {
			t.Errorf("expected log output to contain message, got %q", output)
		}
		if !strings.Contains(output, "value") {
			t.Errorf("expected log output to contain field value, got %q", output)
		}
	})

	t.Run("Nil Writer Defaults", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected a logger")
		}
	})
}

func TestWithLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(buf)

	child := WithLogger(logger, "component", "server")
	child.Info("request")

	if !strings.Contains(buf.String(), "server") {
		t.Errorf("expected child logger fields in output, got %q", buf.String())
	}
}

func TestGenerateState(t *testing.T) {
	first := GenerateState()
	second := GenerateState()

	if first == "" {
		t.Fatal("expected a non-empty state token")
	}
	if first == second {
		t.Error("expected state tokens to be unique")
	}
	if len(first) != 36 {
		t.Errorf("expected UUID-shaped state, got %q", first)
	}
}
