package catalog

import (
	"strings"
	"testing"
)

func TestLoadBundled(t *testing.T) {
	cat, err := LoadBundled()
	if err != nil {
		t.Fatalf("LoadBundled failed: %v", err)
	}

	if cat.Source != SourceBundled {
		t.Fatalf("source=%q want=%q", cat.Source, SourceBundled)
	}
	if cat.Schema < 1 {
		t.Fatalf("schema=%d want>=1", cat.Schema)
	}
	if cat.Version == "" {
		t.Fatalf("bundled catalog has no version")
	}

	ids := cat.GameIDs()
	if len(ids) == 0 {
		t.Fatalf("bundled catalog has no games")
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("GameIDs not sorted: %q before %q", ids[i-1], ids[i])
		}
	}

	files, ok := cat.TrackedFiles("elden_ring")
	if !ok || len(files) == 0 {
		t.Fatalf("bundled catalog missing elden_ring entries")
	}
	for _, tf := range files {
		if tf.SizeMin > tf.SizeMax {
			t.Fatalf("entry %s: size_min %d > size_max %d", tf.Path, tf.SizeMin, tf.SizeMax)
		}
	}

	if _, ok := cat.BuildID("elden_ring"); !ok {
		t.Fatalf("bundled catalog missing elden_ring build id")
	}
}

func TestTrackedFilesReturnsCopy(t *testing.T) {
	cat, err := LoadBundled()
	if err != nil {
		t.Fatalf("LoadBundled failed: %v", err)
	}

	files, _ := cat.TrackedFiles("dark_souls_3")
	original := files[0].Path
	files[0].Path = "mutated"

	again, _ := cat.TrackedFiles("dark_souls_3")
	if again[0].Path != original {
		t.Fatalf("TrackedFiles exposed internal state: got %q want %q", again[0].Path, original)
	}
}

func TestTrackedFilesUnknownGame(t *testing.T) {
	cat, err := LoadBundled()
	if err != nil {
		t.Fatalf("LoadBundled failed: %v", err)
	}
	if files, ok := cat.TrackedFiles("bloodborne"); ok || files != nil {
		t.Fatalf("expected no entries for unknown game, got %v", files)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "invalid json", data: `{"schema": 1,`},
		{name: "missing version", data: `{"schema": 1, "games": {"g": [{"path": "a", "size_min": 1, "size_max": 2}]}}`},
		{name: "empty games", data: `{"schema": 1, "version": "x", "games": {}}`},
		{name: "game without entries", data: `{"schema": 1, "version": "x", "games": {"g": []}}`},
		{name: "entry missing path", data: `{"schema": 1, "version": "x", "games": {"g": [{"size_min": 1, "size_max": 2}]}}`},
		{name: "negative size", data: `{"schema": 1, "version": "x", "games": {"g": [{"path": "a", "size_min": -1, "size_max": 2}]}}`},
		{name: "uppercase hash", data: `{"schema": 1, "version": "x", "games": {"g": [{"path": "a", "size_min": 1, "size_max": 2, "sha256": "` + strings.Repeat("A", 64) + `"}]}}`},
		{name: "short hash", data: `{"schema": 1, "version": "x", "games": {"g": [{"path": "a", "size_min": 1, "size_max": 2, "sha256": "abc123"}]}}`},
		{name: "inverted range", data: `{"schema": 1, "version": "x", "games": {"g": [{"path": "a", "size_min": 5, "size_max": 2}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), SourceRemote); err == nil {
				t.Fatalf("parse accepted malformed catalog")
			}
		})
	}
}

func TestParseValidDocument(t *testing.T) {
	data := `{
		"schema": 1,
		"version": "2026-01-01",
		"games": {
			"g": [
				{"path": "game.exe", "size_min": 45000000, "size_max": 45500000, "fatal": true},
				{"path": "extra.dll", "size_min": 100, "size_max": 100, "sha256": "` + strings.Repeat("ab", 32) + `"}
			]
		},
		"builds": {"g": 12345}
	}`

	cat, err := Parse([]byte(data), SourceRemote)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cat.Source != SourceRemote {
		t.Fatalf("source=%q want=%q", cat.Source, SourceRemote)
	}

	files, ok := cat.TrackedFiles("g")
	if !ok || len(files) != 2 {
		t.Fatalf("TrackedFiles=%v want 2 entries", files)
	}
	if files[0].Path != "game.exe" || files[1].Path != "extra.dll" {
		t.Fatalf("entry order not preserved: %v", files)
	}
	if files[0].SizeMin != 45000000 || files[0].SizeMax != 45500000 {
		t.Fatalf("range=%d..%d want 45000000..45500000", files[0].SizeMin, files[0].SizeMax)
	}
	if !files[0].Fatal || files[1].Fatal {
		t.Fatalf("fatal flags wrong: %v", files)
	}
	if files[1].SHA256 != strings.Repeat("ab", 32) {
		t.Fatalf("sha256 not carried: %q", files[1].SHA256)
	}

	build, ok := cat.BuildID("g")
	if !ok || build != 12345 {
		t.Fatalf("BuildID=%d,%v want 12345,true", build, ok)
	}
	if _, ok := cat.BuildID("other"); ok {
		t.Fatalf("BuildID reported for game without one")
	}
}

func TestDumpJSONCarriesProvenance(t *testing.T) {
	cat, err := LoadBundled()
	if err != nil {
		t.Fatalf("LoadBundled failed: %v", err)
	}

	out, err := cat.DumpJSON()
	if err != nil {
		t.Fatalf("DumpJSON failed: %v", err)
	}
	if !strings.Contains(string(out), `"source": "bundled-fallback"`) {
		t.Fatalf("dump missing provenance tag:\n%s", out)
	}
	if !strings.Contains(string(out), `"elden_ring"`) {
		t.Fatalf("dump missing game entries:\n%s", out)
	}
}
