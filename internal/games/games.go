// Package games declares the closed set of supported titles. Unknown
// identifiers are rejected at lookup time with the valid set in the
// error, rather than surfacing as a runtime surprise deeper in a check.
package games

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/catalog"
)

// ErrUnknownGame is returned for identifiers outside the registry.
var ErrUnknownGame = errors.New("unknown game")

// Profile describes one supported title: how its installation is laid
// out, what its save file is called, and which tracked files to verify.
// Files is empty until the profile is bound to a catalog with Resolve.
type Profile struct {
	// ID is the stable identifier used in catalogs and on the CLI.
	ID string
	// Name is the display name.
	Name string
	// Exe is the executable file name, without directories.
	Exe string
	// Subfolder is the directory under the install folder holding the
	// binaries. Empty for titles installed flat.
	Subfolder string
	// SaveFile is the default save-file name for the title.
	SaveFile string
	// SteamAppID is the Steam application id, as it appears in
	// appmanifest file names.
	SteamAppID string
	// Regulation is the install-relative path of the regulation file,
	// empty for titles that do not ship one.
	Regulation string
	// TamperFolders and TamperFiles name artifacts of known crack and
	// repack distributions for this title, looked for inside GameDir.
	TamperFolders []string
	TamperFiles   []string

	// Files holds the catalog entries to verify, in catalog order.
	Files []catalog.TrackedFile
}

// dinput8.dll is a legitimate fix-loader hook for Dark Souls
// Remastered, Dark Souls II, and Sekiro, so only the remaining titles
// treat it as an indicator.
var (
	tamperFilesCommon = []string{
		"dlllist.txt", "OnlineFix.ini", "OnlineFix64.dll",
		"steam_api64.rne", "steam_emu.ini", "winmm.dll",
	}
	tamperFilesDinput = append(append([]string{}, tamperFilesCommon...), "dinput8.dll")
)

var registry = []Profile{
	{
		ID:            "elden_ring",
		Name:          "Elden Ring",
		Exe:           "eldenring.exe",
		Subfolder:     "Game",
		SaveFile:      "ER0000.sl2",
		SteamAppID:    "1245620",
		Regulation:    "Game/regulation.bin",
		TamperFolders: []string{"_CommonRedist", "AdvGuide", "ArtbookOST"},
		TamperFiles:   tamperFilesDinput,
	},
	{
		ID:            "nightreign",
		Name:          "Elden Ring Nightreign",
		Exe:           "nightreign.exe",
		Subfolder:     "Game",
		SaveFile:      "NR0000.sl2",
		SteamAppID:    "2622380",
		Regulation:    "Game/regulation.bin",
		TamperFolders: []string{"_CommonRedist", "AdvGuide"},
		TamperFiles:   tamperFilesDinput,
	},
	{
		ID:            "dark_souls_remastered",
		Name:          "Dark Souls Remastered",
		Exe:           "DarkSoulsRemastered.exe",
		SaveFile:      "DRAKS0005.sl2",
		SteamAppID:    "570940",
		TamperFolders: []string{"_CommonRedist"},
		TamperFiles:   tamperFilesCommon,
	},
	{
		ID:            "dark_souls_2",
		Name:          "Dark Souls II: Scholar of the First Sin",
		Exe:           "DarkSoulsII.exe",
		Subfolder:     "Game",
		SaveFile:      "DS2SOFS0000.sl2",
		SteamAppID:    "335300",
		TamperFolders: []string{"_CommonRedist"},
		TamperFiles:   tamperFilesCommon,
	},
	{
		ID:            "dark_souls_3",
		Name:          "Dark Souls III",
		Exe:           "DarkSoulsIII.exe",
		Subfolder:     "Game",
		SaveFile:      "DS30000.sl2",
		SteamAppID:    "374320",
		Regulation:    "Game/regulation.bin",
		TamperFolders: []string{"_CommonRedist"},
		TamperFiles:   tamperFilesDinput,
	},
	{
		ID:            "sekiro",
		Name:          "Sekiro: Shadows Die Twice",
		Exe:           "sekiro.exe",
		SaveFile:      "S0000.sl2",
		SteamAppID:    "814380",
		TamperFolders: []string{"_CommonRedist"},
		TamperFiles:   tamperFilesCommon,
	},
	{
		ID:            "armored_core_6",
		Name:          "Armored Core VI: Fires of Rubicon",
		Exe:           "armoredcore6.exe",
		Subfolder:     "Game",
		SaveFile:      "AC60000.sl2",
		SteamAppID:    "1888160",
		Regulation:    "Game/regulation.bin",
		TamperFolders: []string{"_CommonRedist"},
		TamperFiles:   tamperFilesDinput,
	},
}

// All returns every supported profile in registry order.
func All() []Profile {
	return append([]Profile(nil), registry...)
}

// IDs returns all supported identifiers in registry order.
func IDs() []string {
	ids := make([]string, len(registry))
	for i, p := range registry {
		ids[i] = p.ID
	}
	return ids
}

// Lookup finds a profile by identifier. Matching is case-insensitive
// and accepts dashes for underscores.
func Lookup(id string) (Profile, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), "-", "_")
	for _, p := range registry {
		if p.ID == normalized {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w %q (supported: %s)", ErrUnknownGame, id, strings.Join(IDs(), ", "))
}

// Resolve binds a profile to its tracked files from the catalog.
func Resolve(id string, cat *catalog.Catalog) (Profile, error) {
	p, err := Lookup(id)
	if err != nil {
		return Profile{}, err
	}
	files, ok := cat.TrackedFiles(p.ID)
	if !ok || len(files) == 0 {
		return Profile{}, fmt.Errorf("catalog %s has no entries for %q", cat.Version, p.ID)
	}
	p.Files = files
	return p, nil
}

// GameDir returns the directory holding the title's binaries under the
// given install folder.
func (p Profile) GameDir(installDir string) string {
	if p.Subfolder == "" {
		return installDir
	}
	return filepath.Join(installDir, p.Subfolder)
}
