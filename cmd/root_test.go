package cmd

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/catalog"
)

func TestUsageArgsWrapsValidationErrors(t *testing.T) {
	wrapped := usageArgs(cobra.ExactArgs(1))
	cmd := &cobra.Command{Use: "test"}

	if err := wrapped(cmd, []string{"ok"}); err != nil {
		t.Fatalf("usageArgs returned unexpected error for valid args: %v", err)
	}

	err := wrapped(cmd, nil)
	if err == nil {
		t.Fatalf("usageArgs should return an error for invalid args")
	}
	if !isUsageError(err) {
		t.Fatalf("usageArgs error should be marked as usage error: %v", err)
	}
}

func TestIsUsageError(t *testing.T) {
	if !isUsageError(wrapUsageError(errors.New("bad args"))) {
		t.Fatalf("wrapped usage error not detected")
	}
	if !isUsageError(errors.New(`unknown command "foo" for "fromsoft-troubleshooter"`)) {
		t.Fatalf("unknown command error should be treated as usage error")
	}
	if isUsageError(errors.New("runtime failure")) {
		t.Fatalf("runtime failure should not be treated as usage error")
	}
}

func TestResolveCatalogURL(t *testing.T) {
	t.Setenv("FSTS_CATALOG_URL", "")

	catalogURL = ""
	if got := resolveCatalogURL(); got != catalog.DefaultURL {
		t.Errorf("resolveCatalogURL() = %q, want default", got)
	}

	t.Setenv("FSTS_CATALOG_URL", "https://example.com/env.json")
	if got := resolveCatalogURL(); got != "https://example.com/env.json" {
		t.Errorf("resolveCatalogURL() = %q, want env value", got)
	}

	catalogURL = "https://example.com/flag.json"
	defer func() { catalogURL = "" }()
	if got := resolveCatalogURL(); got != "https://example.com/flag.json" {
		t.Errorf("resolveCatalogURL() = %q, want flag value", got)
	}
}

func TestFilterTracked(t *testing.T) {
	files := []catalog.TrackedFile{
		{Path: "Game/eldenring.exe"},
		{Path: "Game/regulation.bin"},
		{Path: "Game/steam_api64.dll"},
	}

	kept := filterTracked(files, []string{"Game/regulation.bin"})
	if len(kept) != 2 {
		t.Fatalf("filterTracked kept %d files, want 2", len(kept))
	}
	for _, tf := range kept {
		if tf.Path == "Game/regulation.bin" {
			t.Fatalf("skipped path survived the filter: %v", kept)
		}
	}

	if got := filterTracked(files, nil); len(got) != len(files) {
		t.Fatalf("filterTracked with no skips kept %d files, want %d", len(got), len(files))
	}
}
