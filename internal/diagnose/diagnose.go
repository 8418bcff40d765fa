// Package diagnose composes the individual checks into the ordered
// result list the presentation layer renders: installation presence,
// tamper indicators, tracked-file verdicts, save-file health, disk
// space, and the installed-build comparison.
package diagnose

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/catalog"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/diskfree"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/games"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/savefile"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/steam"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/tamper"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/verify"
)

// Status is the severity of one finding.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusInfo    Status = "info"
)

// Result is one diagnostic finding.
type Result struct {
	Name         string `json:"name"`
	Status       Status `json:"status"`
	Message      string `json:"message"`
	FixAvailable bool   `json:"fix_available,omitempty"`
	FixAction    string `json:"fix_action,omitempty"`
}

// Options configures one diagnostic run.
type Options struct {
	// GameFolder is the installation folder. Empty means not specified.
	GameFolder string
	// SaveFile is the save-file path. Empty skips the save checks.
	SaveFile string
	// Hash enables SHA-256 comparison for catalog entries carrying one.
	Hash bool
}

// lowSpaceFloor is the free-space level below which a warning is
// raised.
const lowSpaceFloor = 1 << 30

// Runner executes the checks for one title against a loaded catalog.
type Runner struct {
	fs  afero.Fs
	cat *catalog.Catalog

	// FreeSpace reports usable bytes on the volume of a path. Swapped
	// in tests; a nil value skips the disk-space row.
	FreeSpace func(string) (uint64, error)
	// FindApp looks up an installed Steam application. A nil value
	// skips the build comparison.
	FindApp func(appID string) (*steam.App, error)
}

// New returns a runner backed by the operating system filesystem with
// Steam discovery enabled.
func New(cat *catalog.Catalog) *Runner {
	r := NewWithFS(afero.NewOsFs(), cat)
	r.FindApp = steam.New().FindApp
	return r
}

// NewWithFS returns a runner over the given filesystem. Steam
// discovery is left disabled.
func NewWithFS(fs afero.Fs, cat *catalog.Catalog) *Runner {
	return &Runner{fs: fs, cat: cat, FreeSpace: diskfree.Free}
}

// Run executes every applicable check for the profile and returns the
// findings in presentation order. The profile must already be bound to
// its catalog entries.
func (r *Runner) Run(p games.Profile, opts Options) []Result {
	results := []Result{r.installationResult(opts.GameFolder)}

	if r.folderExists(opts.GameFolder) {
		results = append(results, r.integrityResults(p, opts)...)
	}
	if opts.SaveFile != "" {
		results = append(results, r.saveResults(opts.SaveFile)...)
	}
	results = append(results, r.buildResults(p)...)
	return results
}

func (r *Runner) folderExists(folder string) bool {
	if folder == "" {
		return false
	}
	ok, err := afero.DirExists(r.fs, folder)
	return err == nil && ok
}

func (r *Runner) installationResult(folder string) Result {
	if folder == "" {
		return Result{
			Name: "Game Installation", Status: StatusWarning,
			Message: "Game folder not specified",
		}
	}
	if !r.folderExists(folder) {
		return Result{
			Name: "Game Installation", Status: StatusError,
			Message: fmt.Sprintf("Game folder not found: %s", folder),
		}
	}
	return Result{
		Name: "Game Installation", Status: StatusOK,
		Message: fmt.Sprintf("Game folder found: %s", folder),
	}
}

func (r *Runner) integrityResults(p games.Profile, opts Options) []Result {
	var results []Result

	findings := tamper.NewWithFS(r.fs).Scan(p, p.GameDir(opts.GameFolder))
	results = append(results, tamperResults(findings)...)

	engine := verify.NewWithFS(r.fs, verify.Options{Hash: opts.Hash})
	clean := len(findings) == 0
	for _, v := range engine.Verify(p, opts.GameFolder) {
		res := verdictResult(p, v)
		if res.Status == StatusError || res.Status == StatusWarning {
			clean = false
		}
		results = append(results, res)
	}
	if clean {
		results = append(results, Result{
			Name: "Game Integrity", Status: StatusOK,
			Message: "No integrity issues detected",
		})
	}

	if r.cat.Source == catalog.SourceBundled {
		results = append(results, Result{
			Name: "File Size Catalog", Status: StatusInfo,
			Message: fmt.Sprintf("Using bundled size catalog %s (remote unavailable)", r.cat.Version),
		})
	}
	return results
}

func tamperResults(findings []tamper.Finding) []Result {
	var folders, files []string
	for _, f := range findings {
		if f.Dir {
			folders = append(folders, f.Name)
		} else {
			files = append(files, f.Name)
		}
	}

	var results []Result
	if len(folders) > 0 {
		results = append(results, Result{
			Name: "Unsupported Folders Detected", Status: StatusWarning,
			Message: fmt.Sprintf("Found unsupported folders: %s.", strings.Join(folders, ", ")),
		})
	}
	if len(files) > 0 {
		results = append(results, Result{
			Name: "Unsupported/Damaged Files Detected", Status: StatusError,
			Message:      fmt.Sprintf("Found unsupported files: %s.", strings.Join(files, ", ")),
			FixAvailable: true,
			FixAction:    "Delete the unsupported files and verify game integrity via Steam.",
		})
	}
	return results
}

func verdictResult(p games.Profile, v verify.FileVerdict) Result {
	base := path.Base(v.Path)
	isExe := base == p.Exe
	isRegulation := v.Path != "" && v.Path == p.Regulation
	verifyFix := fmt.Sprintf("Verify game integrity via Steam: Right-click %s > Properties > Installed Files > Verify", p.Name)

	name := "Game File"
	if isExe {
		name = "Game Executable"
	} else if isRegulation {
		name = "Regulation File"
	}

	switch v.Status {
	case verify.StatusOK:
		if isRegulation {
			return Result{
				Name: name, Status: StatusOK,
				Message: fmt.Sprintf("%s is valid (%s)", base, formatFileSize(v.Size)),
			}
		}
		return Result{
			Name: name, Status: StatusOK,
			Message: fmt.Sprintf("%s found (%s)", base, formatFileSize(v.Size)),
		}

	case verify.StatusSizeMismatch:
		if isExe {
			return Result{
				Name: name, Status: StatusWarning,
				Message:      fmt.Sprintf("%s size is unusual (%s)", base, formatFileSize(v.Size)),
				FixAvailable: true,
				FixAction:    verifyFix,
			}
		}
		if isRegulation {
			return Result{
				Name: name, Status: StatusWarning,
				Message:      fmt.Sprintf("%s size is unusual (%s). May indicate modified game files.", base, formatFileSize(v.Size)),
				FixAvailable: true,
				FixAction:    "Delete the file and verify game integrity via Steam.",
			}
		}
		return Result{
			Name: name, Status: StatusError,
			Message:      fmt.Sprintf("%s size is unusual (%s) — may be modified", base, formatFileSize(v.Size)),
			FixAvailable: true,
			FixAction:    verifyFix,
		}

	case verify.StatusHashMismatch:
		return Result{
			Name: name, Status: StatusError,
			Message:      fmt.Sprintf("%s hash does not match the known-good value", base),
			FixAvailable: true,
			FixAction:    verifyFix,
		}

	case verify.StatusMissing:
		if isExe {
			return Result{
				Name: name, Status: StatusError,
				Message:      fmt.Sprintf("%s not found", base),
				FixAvailable: true,
				FixAction:    verifyFix,
			}
		}
		return Result{
			Name: "Critical File Missing", Status: StatusError,
			Message:      fmt.Sprintf("%s is missing from game folder", base),
			FixAvailable: true,
			FixAction:    verifyFix,
		}

	case verify.StatusAbsent:
		return Result{
			Name: "Optional File", Status: StatusInfo,
			Message: fmt.Sprintf("%s not present (only some installs ship it)", base),
		}

	default:
		return Result{
			Name: "File Access", Status: StatusError,
			Message:      fmt.Sprintf("Cannot read %s — check file permissions", base),
			FixAvailable: true,
			FixAction:    "Run as administrator or check file permissions",
		}
	}
}

func (r *Runner) saveResults(savePath string) []Result {
	h := savefile.NewWithFS(r.fs).Inspect(savePath)
	if !h.Exists {
		return []Result{{
			Name: "Save File", Status: StatusError,
			Message: fmt.Sprintf("Save file not found: %s", savePath),
		}}
	}

	var results []Result
	if h.ReadErr != nil {
		results = append(results, Result{
			Name: "Save File Permissions", Status: StatusError,
			Message:      "Cannot read save file — check file permissions",
			FixAvailable: true,
			FixAction:    "Run as administrator or check file permissions",
		})
	} else {
		results = append(results, Result{
			Name: "Save File Permissions", Status: StatusOK,
			Message: "Save file is readable",
		})
	}

	if h.Readable {
		if h.TooSmall() {
			results = append(results, Result{
				Name: "Save File Size", Status: StatusError,
				Message: fmt.Sprintf("Save file suspiciously small (%d bytes) — may be corrupted", h.Size),
			})
		} else {
			results = append(results, Result{
				Name: "Save File Size", Status: StatusOK,
				Message: fmt.Sprintf("Save file size is normal (%d KB)", h.Size/1024),
			})
		}
	}

	if r.FreeSpace != nil {
		if free, err := r.FreeSpace(filepath.Dir(savePath)); err == nil {
			gb := free >> 30
			if free < lowSpaceFloor {
				results = append(results, Result{
					Name: "Disk Space", Status: StatusWarning,
					Message:      fmt.Sprintf("Low disk space: %d GB free", gb),
					FixAvailable: true,
					FixAction:    "Free up disk space for save backups",
				})
			} else {
				results = append(results, Result{
					Name: "Disk Space", Status: StatusOK,
					Message: fmt.Sprintf("Sufficient disk space: %d GB free", gb),
				})
			}
		}
	}
	return results
}

func (r *Runner) buildResults(p games.Profile) []Result {
	if r.FindApp == nil {
		return nil
	}
	known, ok := r.cat.BuildID(p.ID)
	if !ok {
		return nil
	}
	app, err := r.FindApp(p.SteamAppID)
	if err != nil {
		return nil
	}

	switch {
	case app.BuildID == known:
		return []Result{{
			Name: "Game Build", Status: StatusOK,
			Message: fmt.Sprintf("Installed build %d matches the known current build", app.BuildID),
		}}
	case app.BuildID < known:
		return []Result{{
			Name: "Game Build", Status: StatusWarning,
			Message:      fmt.Sprintf("Installed build %d predates the known current build %d", app.BuildID, known),
			FixAvailable: true,
			FixAction:    "Update the game in Steam, then re-run the checks.",
		}}
	default:
		return []Result{{
			Name: "Game Build", Status: StatusInfo,
			Message: fmt.Sprintf("Installed build %d is newer than the known build %d", app.BuildID, known),
		}}
	}
}

func formatFileSize(n int64) string {
	if n >= 1<<20 {
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	}
	return fmt.Sprintf("%d KiB", n/1024)
}
