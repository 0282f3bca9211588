package main

import (
	"path/filepath"
	"testing"

	"github.com/tipitaka-tools/tipitakafetch/internal/config"
)

// TestInitCmd exercises config file generation.
func TestInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates a loadable config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), config.DefaultConfigFile)

		cmd := NewInitCmd()
		cmd.SetArgs([]string{"-o", path})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		// The generated template must parse as a valid config file
		if _, err := config.LoadConfigFile(path); err != nil {
			t.Errorf("generated template does not load: %v", err)
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), config.DefaultConfigFile)

		first := NewInitCmd()
		first.SetArgs([]string{"-o", path})
		if err := first.Execute(); err != nil {
			t.Fatal(err)
		}

		second := NewInitCmd()
		second.SetArgs([]string{"-o", path})
		if err := second.Execute(); err == nil {
			t.Error("expected error when file already exists")
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), config.DefaultConfigFile)

		first := NewInitCmd()
		first.SetArgs([]string{"-o", path})
		if err := first.Execute(); err != nil {
			t.Fatal(err)
		}

		second := NewInitCmd()
		second.SetArgs([]string{"-o", path, "-f"})
		if err := second.Execute(); err != nil {
			t.Errorf("Execute() with -f error = %v", err)
		}
	})
}
