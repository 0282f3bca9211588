package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("full config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `baseURL: https://mirror.example.org
defaults:
  batchSize: 50
  delay: 2s
  userAgent: "custom-agent/1.0"
nikayas:
  digha:
    start: 20
    end: 100
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}

		if cf.BaseURL != "https://mirror.example.org" {
			t.Errorf("BaseURL = %q", cf.BaseURL)
		}
		if cf.Defaults.BatchSize != 50 {
			t.Errorf("BatchSize = %d, want 50", cf.Defaults.BatchSize)
		}
		if cf.Defaults.UserAgent != "custom-agent/1.0" {
			t.Errorf("UserAgent = %q", cf.Defaults.UserAgent)
		}

		o, ok := cf.Nikayas["digha"]
		if !ok {
			t.Fatal("digha override missing")
		}
		if o.Start != 20 || o.End != 100 {
			t.Errorf("override = %d-%d, want 20-100", o.Start, o.End)
		}
	})

	t.Run("empty file gives empty config", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}
		if cf.Nikayas == nil {
			t.Error("Nikayas map should be initialized")
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want %v", err, ErrConfigNotFound)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(":\n  - not yaml"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path found", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("explicit path missing returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); got != "" {
			t.Errorf("FindConfigFile() = %q, want empty", got)
		}
	})
}

func TestFetchDefaultsDelayDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		delay   string
		want    time.Duration
		wantSet bool
		wantErr bool
	}{
		{name: "empty means unset", delay: "", wantSet: false},
		{name: "seconds", delay: "2s", want: 2 * time.Second, wantSet: true},
		{name: "milliseconds", delay: "500ms", want: 500 * time.Millisecond, wantSet: true},
		{name: "invalid syntax", delay: "fast", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := FetchDefaults{Delay: tt.delay}
			got, ok, err := d.DelayDuration()
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if ok != tt.wantSet {
				t.Errorf("set = %v, want %v", ok, tt.wantSet)
			}
			if got != tt.want {
				t.Errorf("duration = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFileApplyOverride(t *testing.T) {
	t.Parallel()

	base := Nikaya{Key: "digha", Start: 17, End: 264}

	tests := []struct {
		name      string
		overrides map[string]RangeOverride
		wantStart int
		wantEnd   int
	}{
		{
			name:      "no override for key",
			overrides: map[string]RangeOverride{"majjhima": {Start: 1, End: 2}},
			wantStart: 17,
			wantEnd:   264,
		},
		{
			name:      "both bounds replaced",
			overrides: map[string]RangeOverride{"digha": {Start: 20, End: 100}},
			wantStart: 20,
			wantEnd:   100,
		},
		{
			name:      "only end pinned",
			overrides: map[string]RangeOverride{"digha": {End: 50}},
			wantStart: 17,
			wantEnd:   50,
		},
		{
			name:      "only start pinned",
			overrides: map[string]RangeOverride{"digha": {Start: 30}},
			wantStart: 30,
			wantEnd:   264,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cf := &File{Nikayas: tt.overrides}
			got := cf.ApplyOverride(base)
			if got.Start != tt.wantStart || got.End != tt.wantEnd {
				t.Errorf("range = %d-%d, want %d-%d", got.Start, got.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
