package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolvePrecedence(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	file := writeConfig(t, `api_url = "http://from-file:9000"`)

	tests := []struct {
		name       string
		src        Sources
		wantURL    string
		wantSource string
	}{
		{
			name:       "default",
			src:        Sources{Getenv: env(nil)},
			wantURL:    "http://localhost:8000",
			wantSource: SourceDefault,
		},
		{
			name:       "file",
			src:        Sources{Path: file, Getenv: env(nil)},
			wantURL:    "http://from-file:9000",
			wantSource: SourceFile,
		},
		{
			name:       "vite env over file",
			src:        Sources{Path: file, Getenv: env(map[string]string{EnvViteAPIURL: "http://vite:1"})},
			wantURL:    "http://vite:1",
			wantSource: SourceEnv,
		},
		{
			name: "trustgraph env over vite env",
			src: Sources{Path: file, Getenv: env(map[string]string{
				EnvViteAPIURL: "http://vite:1",
				EnvAPIURL:     "http://tg:2",
			})},
			wantURL:    "http://tg:2",
			wantSource: SourceEnv,
		},
		{
			name:       "flag over everything",
			src:        Sources{Path: file, FlagURL: "http://flag:3", Getenv: env(map[string]string{EnvAPIURL: "http://tg:2"})},
			wantURL:    "http://flag:3",
			wantSource: SourceFlag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(tt.src)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if cfg.APIURL != tt.wantURL {
				t.Errorf("APIURL = %q, want %q", cfg.APIURL, tt.wantURL)
			}
			if cfg.APIURLSource != tt.wantSource {
				t.Errorf("APIURLSource = %q, want %q", cfg.APIURLSource, tt.wantSource)
			}
		})
	}
}

func TestResolveFileSettings(t *testing.T) {
	path := writeConfig(t, `
api_url   = "http://api.test"
timeout   = "30s"
log_level = "debug"
`)

	cfg, err := Resolve(Sources{Path: path, Getenv: env(nil)})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if cfg.Timeout.Duration != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Level() != log.DebugLevel {
		t.Errorf("Level() = %v, want debug", cfg.Level())
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestResolveMissingDefaultFileIsFine(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Resolve(Sources{Getenv: env(nil)})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty", cfg.Path)
	}
	if cfg.Timeout.Duration != 0 {
		t.Errorf("Timeout = %v, want none", cfg.Timeout)
	}
}

func TestResolveDefaultFileFromXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "trustgraph"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "trustgraph", "config.toml"), []byte(`api_url = "http://xdg"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Resolve(Sources{Getenv: env(nil)})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if cfg.APIURL != "http://xdg" {
		t.Errorf("APIURL = %q, want http://xdg", cfg.APIURL)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		src  func(t *testing.T) Sources
	}{
		{"explicit missing file", func(t *testing.T) Sources {
			return Sources{Path: filepath.Join(t.TempDir(), "nope.toml"), Getenv: env(nil)}
		}},
		{"malformed toml", func(t *testing.T) Sources {
			return Sources{Path: writeConfig(t, `api_url = `), Getenv: env(nil)}
		}},
		{"bad duration", func(t *testing.T) Sources {
			return Sources{Path: writeConfig(t, `timeout = "soon"`), Getenv: env(nil)}
		}},
		{"negative duration", func(t *testing.T) Sources {
			return Sources{Path: writeConfig(t, `timeout = "-1s"`), Getenv: env(nil)}
		}},
		{"bad log level", func(t *testing.T) Sources {
			return Sources{Path: writeConfig(t, `log_level = "loud"`), Getenv: env(nil)}
		}},
		{"relative api url", func(t *testing.T) Sources {
			return Sources{Path: writeConfig(t, `api_url = "not a url"`), Getenv: env(nil)}
		}},
		{"bad flag url", func(t *testing.T) Sources {
			return Sources{FlagURL: "/graph", Getenv: env(nil)}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(tt.src(t)); err == nil {
				t.Error("Resolve() should fail")
			}
		})
	}
}

func TestResolveValidationMessage(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := Resolve(Sources{FlagURL: "not a url", Getenv: env(nil)})
	if err == nil {
		t.Fatal("Resolve() should fail")
	}
	want := `config: api_url must be an absolute URL, got "not a url"`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err, want)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "trustgraph", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
