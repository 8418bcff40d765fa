package catalog

import (
	"maps"
	"slices"
)

type ChangeType int

const (
	Added ChangeType = iota
	Removed
	Updated
	Unchanged
)

func (t ChangeType) String() string {
	switch t {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Updated:
		return "updated"
	case Unchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Change describes one tracked-file difference between two catalogs.
// Old is zero-valued for Added entries, New for Removed ones.
type Change struct {
	GameID string
	Path   string
	Type   ChangeType
	Old    TrackedFile
	New    TrackedFile
}

// Diff compares two catalogs and returns the per-file changes, ordered
// by game identifier then path. Neither catalog is modified.
func Diff(oldCat, newCat *Catalog) []Change {
	gameIDs := make(map[string]bool)
	for id := range oldCat.games {
		gameIDs[id] = true
	}
	for id := range newCat.games {
		gameIDs[id] = true
	}

	var changes []Change
	for _, id := range slices.Sorted(maps.Keys(gameIDs)) {
		oldFiles := indexByPath(oldCat.games[id])
		newFiles := indexByPath(newCat.games[id])

		for _, path := range slices.Sorted(maps.Keys(newFiles)) {
			nf := newFiles[path]
			of, exists := oldFiles[path]
			switch {
			case !exists:
				changes = append(changes, Change{GameID: id, Path: path, Type: Added, New: nf})
			case of != nf:
				changes = append(changes, Change{GameID: id, Path: path, Type: Updated, Old: of, New: nf})
			default:
				changes = append(changes, Change{GameID: id, Path: path, Type: Unchanged, Old: of, New: nf})
			}
		}

		for _, path := range slices.Sorted(maps.Keys(oldFiles)) {
			if _, exists := newFiles[path]; exists {
				continue
			}
			changes = append(changes, Change{GameID: id, Path: path, Type: Removed, Old: oldFiles[path]})
		}
	}

	return changes
}

func indexByPath(files []TrackedFile) map[string]TrackedFile {
	idx := make(map[string]TrackedFile, len(files))
	for _, tf := range files {
		idx[tf.Path] = tf
	}
	return idx
}

// Summary returns counts by change type.
func Summary(changes []Change) (added, removed, updated, unchanged int) {
	for _, c := range changes {
		switch c.Type {
		case Added:
			added++
		case Removed:
			removed++
		case Updated:
			updated++
		case Unchanged:
			unchanged++
		}
	}
	return
}
