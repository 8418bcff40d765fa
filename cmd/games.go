package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/games"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/logging"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/steam"
)

var gamesInstalled bool

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List supported games",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !gamesInstalled {
			for _, p := range games.All() {
				logging.Infof("%-24s %s\n", p.ID, p.Name)
			}
			return nil
		}

		finder := steam.New()
		found := 0
		for _, p := range games.All() {
			app, err := finder.FindApp(p.SteamAppID)
			if err != nil {
				logging.Debugf("%s: %v\n", p.ID, err)
				continue
			}
			found++
			logging.Infof("%-24s %s (build %d)\n", p.ID, app.InstallDir, app.BuildID)
		}
		if found == 0 {
			logging.Infoln("No supported games found in Steam libraries.")
		}
		return nil
	},
}

func init() {
	gamesCmd.Flags().BoolVar(&gamesInstalled, "installed", false, "Only list games found in Steam libraries, with install paths")
	rootCmd.AddCommand(gamesCmd)
}
