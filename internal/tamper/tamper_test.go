package tamper

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/games"
)

func TestScan(t *testing.T) {
	profile, err := games.Lookup("elden_ring")
	require.NoError(t, err)

	gameDir := "/games/ELDEN RING/Game"

	t.Run("clean install", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(gameDir, 0o755))
		require.NoError(t, afero.WriteFile(fs, filepath.Join(gameDir, "eldenring.exe"), []byte("x"), 0o644))

		require.Empty(t, NewWithFS(fs).Scan(profile, gameDir))
	})

	t.Run("indicators found in order", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(filepath.Join(gameDir, "ArtbookOST"), 0o755))
		require.NoError(t, fs.MkdirAll(filepath.Join(gameDir, "_CommonRedist"), 0o755))
		require.NoError(t, afero.WriteFile(fs, filepath.Join(gameDir, "OnlineFix.ini"), []byte("x"), 0o644))
		require.NoError(t, afero.WriteFile(fs, filepath.Join(gameDir, "winmm.dll"), []byte("x"), 0o644))

		findings := NewWithFS(fs).Scan(profile, gameDir)
		require.Len(t, findings, 4)

		// Folders first, each group in profile list order.
		require.Equal(t, Finding{Name: "_CommonRedist", Dir: true}, findings[0])
		require.Equal(t, Finding{Name: "ArtbookOST", Dir: true}, findings[1])
		require.Equal(t, Finding{Name: "OnlineFix.ini"}, findings[2])
		require.Equal(t, Finding{Name: "winmm.dll"}, findings[3])
	})

	t.Run("folder indicator must be a directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(gameDir, 0o755))
		// A stray file named like an indicator folder does not count.
		require.NoError(t, afero.WriteFile(fs, filepath.Join(gameDir, "_CommonRedist"), []byte("x"), 0o644))

		require.Empty(t, NewWithFS(fs).Scan(profile, gameDir))
	})

	t.Run("dinput8 ignored for dark souls remastered", func(t *testing.T) {
		dsr, err := games.Lookup("dark_souls_remastered")
		require.NoError(t, err)

		dir := "/games/DSR"
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(dir, 0o755))
		require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "dinput8.dll"), []byte("x"), 0o644))

		require.Empty(t, NewWithFS(fs).Scan(dsr, dir))
	})
}
