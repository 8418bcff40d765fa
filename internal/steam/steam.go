// Package steam locates Steam library folders and installed
// applications by reading libraryfolders.vdf and appmanifest ACF
// files. Read-only: nothing under a Steam root is ever written.
package steam

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"

	"github.com/spf13/afero"
)

// ErrNotInstalled is returned when no library holds an appmanifest for
// the requested application.
var ErrNotInstalled = errors.New("app not installed")

// App is one installed application, read from its appmanifest.
type App struct {
	// AppID is the Steam application id.
	AppID string
	// Name is the application name from the manifest.
	Name string
	// BuildID is the installed build number.
	BuildID int64
	// InstallDir is the absolute installation folder
	// (steamapps/common/<installdir>).
	InstallDir string
	// Library is the steamapps folder holding the manifest.
	Library string
}

// Values are quoted in VDF/ACF text, keys case-insensitive in ACF.
var (
	vdfPathRe    = regexp.MustCompile(`"path"\s+"([^"]+)"`)
	acfNameRe    = regexp.MustCompile(`(?i)"name"\s+"([^"]+)"`)
	acfBuildRe   = regexp.MustCompile(`(?i)"buildid"\s+"([^"]+)"`)
	acfInstallRe = regexp.MustCompile(`(?i)"installdir"\s+"([^"]+)"`)
)

// Finder discovers Steam libraries on the local machine.
type Finder struct {
	fs   afero.Fs
	home string
	goos string
}

// New returns a finder for the current user and operating system.
func New() *Finder {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return NewWithFS(afero.NewOsFs(), home, runtime.GOOS)
}

// NewWithFS returns a finder over the given filesystem, home directory,
// and GOOS value.
func NewWithFS(fs afero.Fs, home, goos string) *Finder {
	return &Finder{fs: fs, home: home, goos: goos}
}

// Libraries returns every steamapps folder found: the per-OS candidate
// roots that exist, expanded with the entries of libraryfolders.vdf,
// deduplicated with discovery order preserved.
func (f *Finder) Libraries() []string {
	var libs []string
	for _, c := range f.candidates() {
		if ok, err := afero.DirExists(f.fs, c); err == nil && ok {
			libs = append(libs, c)
		}
	}

	expanded := append([]string(nil), libs...)
	for _, root := range libs {
		for _, vdf := range []string{
			filepath.Join(root, "libraryfolders.vdf"),
			filepath.Join(filepath.Dir(root), "config", "libraryfolders.vdf"),
		} {
			text, err := afero.ReadFile(f.fs, vdf)
			if err != nil {
				continue
			}
			for _, m := range vdfPathRe.FindAllStringSubmatch(string(text), -1) {
				extra := filepath.Join(m[1], "steamapps")
				if ok, err := afero.DirExists(f.fs, extra); err == nil && ok {
					expanded = append(expanded, extra)
				}
			}
			break
		}
	}

	seen := make(map[string]bool, len(expanded))
	var result []string
	for _, p := range expanded {
		clean := filepath.Clean(p)
		if seen[clean] {
			continue
		}
		seen[clean] = true
		result = append(result, p)
	}
	return result
}

func (f *Finder) candidates() []string {
	if f.goos == "windows" {
		var roots []string
		for _, drive := range []string{"C", "D", "E", "F"} {
			roots = append(roots,
				drive+`:\Program Files (x86)\Steam\steamapps`,
				drive+`:\Steam\steamapps`,
			)
		}
		return roots
	}
	if f.home == "" {
		return nil
	}
	return []string{
		filepath.Join(f.home, ".local", "share", "Steam", "steamapps"),
		filepath.Join(f.home, ".steam", "steam", "steamapps"),
		filepath.Join(f.home, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam", "steamapps"),
	}
}

// FindApp searches every library for appmanifest_<appID>.acf and reads
// the application details from the first manifest that carries a build
// id. Returns ErrNotInstalled when no library has one.
func (f *Finder) FindApp(appID string) (*App, error) {
	for _, lib := range f.Libraries() {
		acf := filepath.Join(lib, "appmanifest_"+appID+".acf")
		text, err := afero.ReadFile(f.fs, acf)
		if err != nil {
			continue
		}

		build := acfString(acfBuildRe, string(text))
		if build == "" {
			continue
		}
		buildID, err := strconv.ParseInt(build, 10, 64)
		if err != nil {
			continue
		}

		app := &App{
			AppID:   appID,
			Name:    acfString(acfNameRe, string(text)),
			BuildID: buildID,
			Library: lib,
		}
		if dir := acfString(acfInstallRe, string(text)); dir != "" {
			app.InstallDir = filepath.Join(lib, "common", dir)
		}
		return app, nil
	}
	return nil, fmt.Errorf("%w: app id %s", ErrNotInstalled, appID)
}

func acfString(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
