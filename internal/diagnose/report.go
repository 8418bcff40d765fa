package diagnose

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/catalog"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/games"
)

// Report is the shareable envelope around one diagnostic run.
type Report struct {
	ID             string    `json:"id"`
	GeneratedAt    time.Time `json:"generated_at"`
	ToolVersion    string    `json:"tool_version"`
	Game           string    `json:"game"`
	GameName       string    `json:"game_name"`
	GameFolder     string    `json:"game_folder,omitempty"`
	SaveFile       string    `json:"save_file,omitempty"`
	CatalogVersion string    `json:"catalog_version"`
	CatalogSource  string    `json:"catalog_source"`
	Results        []Result  `json:"results"`
}

// NewReport wraps the findings of one run in a report envelope with a
// fresh time-ordered id.
func NewReport(p games.Profile, cat *catalog.Catalog, opts Options, results []Result, toolVersion string) (Report, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Report{}, fmt.Errorf("generating report id: %w", err)
	}
	return Report{
		ID:             id.String(),
		GeneratedAt:    time.Now().UTC(),
		ToolVersion:    toolVersion,
		Game:           p.ID,
		GameName:       p.Name,
		GameFolder:     opts.GameFolder,
		SaveFile:       opts.SaveFile,
		CatalogVersion: cat.Version,
		CatalogSource:  string(cat.Source),
		Results:        results,
	}, nil
}

// WriteReport writes the report as indented JSON. The file appears
// atomically via a temp file and rename.
func WriteReport(fs afero.Fs, path string, rep Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
