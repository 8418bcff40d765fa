// Package tamper scans a game folder for artifacts that known crack
// and repack distributions leave behind. Findings are reported to the
// user, never acted on.
package tamper

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/games"
)

// Finding is one indicator present in the game folder.
type Finding struct {
	// Name is the indicator as listed in the profile.
	Name string
	// Dir reports whether the indicator is a folder.
	Dir bool
}

// Scanner checks game folders against a profile's indicator lists.
type Scanner struct {
	fs afero.Fs
}

// New returns a scanner backed by the operating system filesystem.
func New() *Scanner {
	return NewWithFS(afero.NewOsFs())
}

// NewWithFS returns a scanner backed by the given filesystem.
func NewWithFS(fs afero.Fs) *Scanner {
	return &Scanner{fs: fs}
}

// Scan looks for the profile's indicator folders and files directly
// inside gameDir. Findings keep list order, folders before files. An
// indicator that cannot be statted counts as absent.
func (s *Scanner) Scan(p games.Profile, gameDir string) []Finding {
	var findings []Finding
	for _, name := range p.TamperFolders {
		if info, err := s.fs.Stat(filepath.Join(gameDir, name)); err == nil && info.IsDir() {
			findings = append(findings, Finding{Name: name, Dir: true})
		}
	}
	for _, name := range p.TamperFiles {
		if info, err := s.fs.Stat(filepath.Join(gameDir, name)); err == nil && !info.IsDir() {
			findings = append(findings, Finding{Name: name})
		}
	}
	return findings
}
