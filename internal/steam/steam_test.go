package steam

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const home = "/home/tarnished"

func mainLibrary() string {
	return filepath.Join(home, ".local", "share", "Steam", "steamapps")
}

const libraryVDF = `"libraryfolders"
{
	"0"
	{
		"path"		"/home/tarnished/.local/share/Steam"
		"label"		""
	}
	"1"
	{
		"path"		"/mnt/games/SteamLibrary"
		"label"		"games"
	}
}
`

const eldenRingACF = `"AppState"
{
	"appid"		"1245620"
	"name"		"ELDEN RING"
	"StateFlags"		"4"
	"installdir"		"ELDEN RING"
	"buildid"		"19804213"
}
`

func TestLibraries(t *testing.T) {
	t.Run("candidate roots only", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(mainLibrary(), 0o755))

		libs := NewWithFS(fs, home, "linux").Libraries()
		require.Equal(t, []string{mainLibrary()}, libs)
	})

	t.Run("expands libraryfolders.vdf", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(mainLibrary(), 0o755))
		require.NoError(t, fs.MkdirAll("/mnt/games/SteamLibrary/steamapps", 0o755))
		require.NoError(t, afero.WriteFile(fs, filepath.Join(mainLibrary(), "libraryfolders.vdf"), []byte(libraryVDF), 0o644))

		libs := NewWithFS(fs, home, "linux").Libraries()
		require.Equal(t, []string{
			mainLibrary(),
			"/mnt/games/SteamLibrary/steamapps",
		}, libs)
	})

	t.Run("reads config vdf when steamapps has none", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(mainLibrary(), 0o755))
		require.NoError(t, fs.MkdirAll("/mnt/games/SteamLibrary/steamapps", 0o755))
		configVDF := filepath.Join(filepath.Dir(mainLibrary()), "config", "libraryfolders.vdf")
		require.NoError(t, afero.WriteFile(fs, configVDF, []byte(libraryVDF), 0o644))

		libs := NewWithFS(fs, home, "linux").Libraries()
		require.Contains(t, libs, "/mnt/games/SteamLibrary/steamapps")
	})

	t.Run("vdf entries without steamapps are skipped", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(mainLibrary(), 0o755))
		require.NoError(t, afero.WriteFile(fs, filepath.Join(mainLibrary(), "libraryfolders.vdf"), []byte(libraryVDF), 0o644))

		libs := NewWithFS(fs, home, "linux").Libraries()
		require.Equal(t, []string{mainLibrary()}, libs)
	})

	t.Run("no home no libraries", func(t *testing.T) {
		libs := NewWithFS(afero.NewMemMapFs(), "", "linux").Libraries()
		require.Empty(t, libs)
	})
}

func TestFindApp(t *testing.T) {
	t.Run("found in secondary library", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(mainLibrary(), 0o755))
		require.NoError(t, fs.MkdirAll("/mnt/games/SteamLibrary/steamapps", 0o755))
		require.NoError(t, afero.WriteFile(fs, filepath.Join(mainLibrary(), "libraryfolders.vdf"), []byte(libraryVDF), 0o644))
		require.NoError(t, afero.WriteFile(fs, "/mnt/games/SteamLibrary/steamapps/appmanifest_1245620.acf", []byte(eldenRingACF), 0o644))

		app, err := NewWithFS(fs, home, "linux").FindApp("1245620")
		require.NoError(t, err)
		require.Equal(t, "ELDEN RING", app.Name)
		require.Equal(t, int64(19804213), app.BuildID)
		require.Equal(t, "/mnt/games/SteamLibrary/steamapps/common/ELDEN RING", app.InstallDir)
		require.Equal(t, "/mnt/games/SteamLibrary/steamapps", app.Library)
	})

	t.Run("not installed", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(mainLibrary(), 0o755))

		_, err := NewWithFS(fs, home, "linux").FindApp("570940")
		require.ErrorIs(t, err, ErrNotInstalled)
	})

	t.Run("case-insensitive acf keys", func(t *testing.T) {
		acf := `"AppState"
{
	"AppID"		"814380"
	"Name"		"Sekiro"
	"InstallDir"		"Sekiro"
	"BuildID"		"13851867"
}
`
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(mainLibrary(), 0o755))
		require.NoError(t, afero.WriteFile(fs, filepath.Join(mainLibrary(), "appmanifest_814380.acf"), []byte(acf), 0o644))

		app, err := NewWithFS(fs, home, "linux").FindApp("814380")
		require.NoError(t, err)
		require.Equal(t, int64(13851867), app.BuildID)
		require.Equal(t, filepath.Join(mainLibrary(), "common", "Sekiro"), app.InstallDir)
	})

	t.Run("manifest without buildid is skipped", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(mainLibrary(), 0o755))
		require.NoError(t, afero.WriteFile(fs, filepath.Join(mainLibrary(), "appmanifest_374320.acf"), []byte(`"AppState" {}`), 0o644))

		_, err := NewWithFS(fs, home, "linux").FindApp("374320")
		require.ErrorIs(t, err, ErrNotInstalled)
	})
}
