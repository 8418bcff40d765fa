package catalog

import "testing"

func mustParse(t *testing.T, data string) *Catalog {
	t.Helper()
	cat, err := Parse([]byte(data), SourceBundled)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return cat
}

func TestDiff(t *testing.T) {
	oldCat := mustParse(t, `{
		"schema": 1,
		"version": "2026-01-01",
		"games": {
			"elden_ring": [
				{"path": "Game/eldenring.exe", "size_min": 100, "size_max": 200, "fatal": true},
				{"path": "Game/removed.dll", "size_min": 1, "size_max": 2, "fatal": true}
			],
			"sekiro": [
				{"path": "sekiro.exe", "size_min": 10, "size_max": 20, "fatal": true}
			]
		}
	}`)

	newCat := mustParse(t, `{
		"schema": 1,
		"version": "2026-02-01",
		"games": {
			"elden_ring": [
				{"path": "Game/eldenring.exe", "size_min": 100, "size_max": 250, "fatal": true},
				{"path": "Game/added.dll", "size_min": 5, "size_max": 6, "fatal": false}
			],
			"sekiro": [
				{"path": "sekiro.exe", "size_min": 10, "size_max": 20, "fatal": true}
			]
		}
	}`)

	changes := Diff(oldCat, newCat)

	want := []struct {
		gameID string
		path   string
		typ    ChangeType
	}{
		{"elden_ring", "Game/added.dll", Added},
		{"elden_ring", "Game/eldenring.exe", Updated},
		{"elden_ring", "Game/removed.dll", Removed},
		{"sekiro", "sekiro.exe", Unchanged},
	}

	if len(changes) != len(want) {
		t.Fatalf("got %d changes, want %d: %+v", len(changes), len(want), changes)
	}
	for i, w := range want {
		c := changes[i]
		if c.GameID != w.gameID || c.Path != w.path || c.Type != w.typ {
			t.Fatalf("change[%d] = {%s %s %s}, want {%s %s %s}",
				i, c.GameID, c.Path, c.Type, w.gameID, w.path, w.typ)
		}
	}

	added, removed, updated, unchanged := Summary(changes)
	if added != 1 || removed != 1 || updated != 1 || unchanged != 1 {
		t.Fatalf("Summary = %d/%d/%d/%d, want 1/1/1/1", added, removed, updated, unchanged)
	}
}

func TestDiffNewGame(t *testing.T) {
	oldCat := mustParse(t, `{
		"schema": 1,
		"version": "a",
		"games": {
			"sekiro": [{"path": "sekiro.exe", "size_min": 1, "size_max": 2, "fatal": true}]
		}
	}`)
	newCat := mustParse(t, `{
		"schema": 1,
		"version": "b",
		"games": {
			"sekiro": [{"path": "sekiro.exe", "size_min": 1, "size_max": 2, "fatal": true}],
			"nightreign": [{"path": "Game/nightreign.exe", "size_min": 1, "size_max": 2, "fatal": true}]
		}
	}`)

	changes := Diff(oldCat, newCat)
	var addedPaths []string
	for _, c := range changes {
		if c.Type == Added {
			addedPaths = append(addedPaths, c.GameID+"/"+c.Path)
		}
	}
	if len(addedPaths) != 1 || addedPaths[0] != "nightreign/Game/nightreign.exe" {
		t.Fatalf("added=%v want exactly the new game entry", addedPaths)
	}
}
