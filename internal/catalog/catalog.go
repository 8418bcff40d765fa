// Package catalog resolves the authoritative table of expected file
// sizes and hashes per supported game. It prefers a freshly fetched
// remote copy and falls back to the snapshot bundled into the binary;
// it never writes a local cache, so repeated runs cannot observe stale
// data across game patches.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	_ "embed"

	"github.com/kaptinlin/jsonschema"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/logging"
)

// DefaultURL is the fixed, versioned location of the current catalog.
const DefaultURL = "https://raw.githubusercontent.com/hapfel1/fromsoft-troubleshooter/main/data/catalog.v1.json"

// DefaultTimeout bounds the remote fetch. Failure falls back to the
// bundled snapshot, so the bound is kept tight.
const DefaultTimeout = 4 * time.Second

//go:embed catalog.schema.json
var schemaData []byte

//go:embed catalog.json
var bundledData []byte

// TrackedFile is one file within a game installation whose byte size,
// and optionally SHA-256 hash, is checked against known-good values.
// The size range is inclusive on both ends; a file only present on some
// setups carries Fatal=false so its absence is informational.
type TrackedFile struct {
	Path    string `json:"path"`
	SizeMin int64  `json:"size_min"`
	SizeMax int64  `json:"size_max"`
	SHA256  string `json:"sha256,omitempty"`
	Fatal   bool   `json:"fatal"`
}

// Source tags where the active catalog came from.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceBundled Source = "bundled-fallback"
)

// Catalog is the versioned table of tracked files per supported game.
// It is immutable once constructed; a refresh produces a new value, so
// a verification run in progress always sees a consistent snapshot.
type Catalog struct {
	Schema  int
	Version string
	Source  Source

	games  map[string][]TrackedFile
	builds map[string]int64
}

// document is the wire shape shared by the bundled and remote catalogs.
type document struct {
	Schema  int                      `json:"schema"`
	Version string                   `json:"version"`
	Games   map[string][]TrackedFile `json:"games"`
	Builds  map[string]int64         `json:"builds,omitempty"`
}

// Options controls how Load resolves the catalog.
type Options struct {
	// URL overrides DefaultURL when non-empty.
	URL string
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
	// Offline skips the network attempt and loads the bundled snapshot.
	Offline bool
}

// Load resolves the active catalog: a remote fetch with a hard timeout,
// falling back to the bundled snapshot on any failure. The fallback
// path is deterministic and side-effect-free; an error is returned only
// when the bundled snapshot itself is unusable, which is fatal to the
// application.
func Load(ctx context.Context, opts Options) (*Catalog, error) {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if !opts.Offline {
		cat, err := Fetch(ctx, opts.URL, opts.Timeout)
		if err == nil {
			return cat, nil
		}
		logging.Debugf("remote catalog unavailable, using bundled snapshot: %v\n", err)
	}

	return LoadBundled()
}

// LoadBundled parses the snapshot compiled into the binary.
func LoadBundled() (*Catalog, error) {
	cat, err := Parse(bundledData, SourceBundled)
	if err != nil {
		return nil, fmt.Errorf("bundled catalog: %w", err)
	}
	return cat, nil
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func catalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiledSchema, schemaErr = compiler.Compile(schemaData)
	})
	if schemaErr != nil {
		return nil, fmt.Errorf("compiling catalog schema: %w", schemaErr)
	}
	return compiledSchema, nil
}

// Parse validates data against the catalog schema and builds a Catalog
// tagged with the given source. Structural rules the schema cannot
// express (size_min <= size_max) are checked here.
func Parse(data []byte, src Source) (*Catalog, error) {
	schema, err := catalogSchema()
	if err != nil {
		return nil, err
	}

	result := schema.ValidateJSON(data)
	if !result.IsValid() {
		return nil, fmt.Errorf("catalog schema validation failed: %v", result.Errors)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	for id, files := range doc.Games {
		for _, tf := range files {
			if tf.SizeMin > tf.SizeMax {
				return nil, fmt.Errorf("catalog entry %s/%s: size_min %d exceeds size_max %d",
					id, tf.Path, tf.SizeMin, tf.SizeMax)
			}
		}
	}

	return &Catalog{
		Schema:  doc.Schema,
		Version: doc.Version,
		Source:  src,
		games:   doc.Games,
		builds:  doc.Builds,
	}, nil
}

// TrackedFiles returns the tracked files for a game in catalog order.
// The returned slice is a copy; the catalog itself is never mutated.
func (c *Catalog) TrackedFiles(gameID string) ([]TrackedFile, bool) {
	files, ok := c.games[gameID]
	if !ok {
		return nil, false
	}
	return append([]TrackedFile(nil), files...), true
}

// BuildID returns the known current Steam build number for a game, when
// the catalog carries one.
func (c *Catalog) BuildID(gameID string) (int64, bool) {
	id, ok := c.builds[gameID]
	return id, ok
}

// GameIDs returns the identifiers of all games in the catalog, sorted.
func (c *Catalog) GameIDs() []string {
	ids := make([]string, 0, len(c.games))
	for id := range c.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DumpJSON renders the catalog in its wire shape, with the provenance
// tag attached, for --json output.
func (c *Catalog) DumpJSON() ([]byte, error) {
	out := struct {
		Source  Source                   `json:"source"`
		Schema  int                      `json:"schema"`
		Version string                   `json:"version"`
		Games   map[string][]TrackedFile `json:"games"`
		Builds  map[string]int64         `json:"builds,omitempty"`
	}{c.Source, c.Schema, c.Version, c.games, c.builds}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return data, nil
}
