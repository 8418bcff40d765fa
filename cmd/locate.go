package cmd

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/games"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/logging"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/steam"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Locate a game's Steam installation",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		if gameID == "" {
			return wrapUsageError(errors.New("--game is required"))
		}
		p, err := games.Lookup(gameID)
		if err != nil {
			return err
		}

		app, err := steam.New().FindApp(p.SteamAppID)
		if err != nil {
			return err
		}

		logging.Colorf("[bold]%s[reset]\n", p.Name)
		logging.Infof("  Library:     %s\n", app.Library)
		logging.Infof("  Install dir: %s\n", app.InstallDir)
		logging.Infof("  Executable:  %s\n", filepath.Join(p.GameDir(app.InstallDir), p.Exe))
		logging.Infof("  Save file:   %s (under the game's AppData or compatdata folder)\n", p.SaveFile)
		logging.Infof("  Build id:    %d\n", app.BuildID)

		cat, err := loadCatalog(context.Background())
		if err != nil {
			return err
		}
		if known, ok := cat.BuildID(p.ID); ok {
			switch {
			case app.BuildID == known:
				logging.Colorf("  [green]Build matches the catalog's known current build.[reset]\n")
			case app.BuildID < known:
				logging.Colorf("  [yellow]Build predates the catalog's known current build %d.[reset]\n", known)
			default:
				logging.Infof("  Build is newer than the catalog's known build %d.\n", known)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
