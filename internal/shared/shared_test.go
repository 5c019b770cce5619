package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestTruncate(t *testing.T) {
	tc := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "shorter than limit", in: "Heat", n: 191, want: "Heat"},
		{name: "exactly at limit", in: strings.Repeat("a", 191), n: 191, want: strings.Repeat("a", 191)},
		{name: "longer than limit", in: strings.Repeat("b", 300), n: 191, want: strings.Repeat("b", 191)},
		{name: "multibyte runes", in: "Amélie", n: 3, want: "Amé"},
		{name: "empty", in: "", n: 191, want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("Truncate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		SetLogLevel(logger, "warn")
		logger.Info("hidden")
		logger.Warn("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info line should be filtered at warn level: %s", out)
		}
		if !strings.Contains(out, "shown") {
			t.Errorf("warn line missing: %s", out)
		}
	})

	t.Run("SetLogLevel ignores garbage", func(t *testing.T) {
		logger := NewLogger(&bytes.Buffer{})
		logger.SetLevel(log.DebugLevel)

		SetLogLevel(logger, "loud")
		if logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected level to stay debug, got %v", logger.GetLevel())
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "reelist.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("hello")
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected two distinct ids, got %q and %q", a, b)
	}
}

func TestBrowserCommand(t *testing.T) {
	orig := getRuntime
	t.Cleanup(func() { getRuntime = orig })

	for _, rt := range []string{"darwin", "linux", "windows"} {
		getRuntime = func() string { return rt }
		if _, err := browserCommand("http://localhost:3000"); err != nil {
			t.Errorf("browserCommand() on %s error = %v", rt, err)
		}
	}

	getRuntime = func() string { return "plan9" }
	if _, err := browserCommand("http://localhost:3000"); err == nil {
		t.Error("expected error on unsupported platform")
	}
}
