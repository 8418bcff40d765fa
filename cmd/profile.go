package cmd

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/logging"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved option profiles",
}

// Flags for profile create
var (
	profGame       *string
	profGameFolder *string
	profSaveFile   *string
	profHash       *bool
	profOffline    *bool
	profCatalogURL *string
	profTimeout    *string
	profVerbose    *bool
)

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new profile",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := &profile.Profile{}

		if cmd.Flags().Changed("game") {
			p.Game = profGame
		}
		if cmd.Flags().Changed("game-folder") {
			p.GameFolder = profGameFolder
		}
		if cmd.Flags().Changed("save-file") {
			p.SaveFile = profSaveFile
		}
		if cmd.Flags().Changed("hash") {
			p.Hash = profHash
		}
		if cmd.Flags().Changed("offline") {
			p.Offline = profOffline
		}
		if cmd.Flags().Changed("catalog-url") {
			p.CatalogURL = profCatalogURL
		}
		if cmd.Flags().Changed("timeout") {
			p.Timeout = profTimeout
		}
		if cmd.Flags().Changed("verbose") {
			p.Verbose = profVerbose
		}
		if cmd.Flags().Changed("log-file") {
			p.LogFile = &logFile
		}
		if cmd.Flags().Changed("no-color") {
			p.NoColor = &noColor
		}

		if err := profile.Save(args[0], p); err != nil {
			return err
		}
		logging.Infof("Profile %q saved to %s\n", args[0], profile.Dir())
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := profile.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			logging.Infoln("No profiles saved.")
			return nil
		}
		for _, n := range names {
			logging.Infoln(n)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a profile's contents",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return err
		}
		logging.Infof("%s", buf.String())
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved profile",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := profile.Delete(args[0]); err != nil {
			return err
		}
		logging.Infof("Profile %q deleted.\n", args[0])
		return nil
	},
}

func init() {
	// Wire up flags for create. We use local variables so they only apply to
	// this subcommand and don't collide with the root flags.
	profGame = profileCreateCmd.Flags().String("game", "", "Game to check")
	profGameFolder = profileCreateCmd.Flags().String("game-folder", "", "Game installation folder")
	profSaveFile = profileCreateCmd.Flags().String("save-file", "", "Save file to include in the checks")
	profHash = profileCreateCmd.Flags().Bool("hash", false, "Also compare SHA-256 digests")
	profOffline = profileCreateCmd.Flags().Bool("offline", false, "Skip the remote catalog fetch")
	profCatalogURL = profileCreateCmd.Flags().String("catalog-url", "", "Reference catalog URL")
	profTimeout = profileCreateCmd.Flags().String("timeout", "", "Remote catalog fetch timeout, e.g. 4s")
	profVerbose = profileCreateCmd.Flags().Bool("verbose", false, "Enable verbose logging")

	profileCmd.AddCommand(profileCreateCmd, profileListCmd, profileShowCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
