package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/catalog"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/games"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/logging"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/profile"
)

// version is set at build time via -ldflags "-X .../cmd.version=X.Y.Z".
var version = "dev"

var (
	gameID      string
	gameFolder  string
	saveFile    string
	catalogURL  string
	offline     bool
	timeout     time.Duration
	profileName string
	verbose     bool
	logFile     string
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:           "fromsoft-troubleshooter",
	Short:         "Diagnose FromSoftware PC game installations",
	Long:          "Check FromSoftware PC game installations for missing or tampered files, unhealthy save files, and outdated builds, using a remote reference catalog with a bundled fallback.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Optional .env beside the profiles directory. Variables already
		// present in the environment win.
		_ = godotenv.Load(filepath.Join(filepath.Dir(profile.Dir()), ".env"))

		// Apply profile defaults for flags not explicitly set by the user.
		if profileName != "" {
			p, err := profile.Load(profileName)
			if err != nil {
				return err
			}
			if p.Game != nil && !cmd.Flags().Changed("game") {
				gameID = *p.Game
			}
			if p.GameFolder != nil && !cmd.Flags().Changed("game-folder") {
				gameFolder = *p.GameFolder
			}
			if p.SaveFile != nil && !cmd.Flags().Changed("save-file") {
				saveFile = *p.SaveFile
			}
			if p.Hash != nil && !cmd.Flags().Changed("hash") {
				checkHash = *p.Hash
				verifyHash = *p.Hash
			}
			if p.Offline != nil && !cmd.Flags().Changed("offline") {
				offline = *p.Offline
			}
			if p.CatalogURL != nil && !cmd.Flags().Changed("catalog-url") {
				catalogURL = *p.CatalogURL
			}
			if p.Timeout != nil && !cmd.Flags().Changed("timeout") {
				d, err := time.ParseDuration(*p.Timeout)
				if err != nil {
					return fmt.Errorf("profile timeout %q: %w", *p.Timeout, err)
				}
				timeout = d
			}
			if p.Verbose != nil && !cmd.Flags().Changed("verbose") {
				verbose = *p.Verbose
			}
			if p.LogFile != nil && !cmd.Flags().Changed("log-file") {
				logFile = *p.LogFile
			}
			if p.NoColor != nil && !cmd.Flags().Changed("no-color") {
				noColor = *p.NoColor
			}
		}

		if logFile == "" {
			logFile = os.Getenv("FSTS_LOG_FILE")
		}

		logging.SetVerbose(verbose)
		logging.SetColor(colorWanted())
		if err := logging.SetOutputFile(logFile); err != nil {
			return fmt.Errorf("opening log file %q: %w", logFile, err)
		}
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	closeErr := logging.Close()
	if closeErr != nil {
		fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", closeErr)
		if err == nil {
			os.Exit(1)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if isUsageError(err) {
			if cmd, _, findErr := rootCmd.Find(os.Args[1:]); findErr == nil && cmd != nil {
				_ = cmd.Usage()
			} else {
				_ = rootCmd.Usage()
			}
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return wrapUsageError(err)
	})

	rootCmd.PersistentFlags().StringVarP(&gameID, "game", "g", "", "Game to check: "+strings.Join(games.IDs(), ", "))
	rootCmd.PersistentFlags().StringVarP(&gameFolder, "game-folder", "d", "", "Game installation folder (default: discovered via Steam)")
	rootCmd.PersistentFlags().StringVarP(&saveFile, "save-file", "s", "", "Save file to include in the checks")
	rootCmd.PersistentFlags().StringVar(&catalogURL, "catalog-url", "", "Reference catalog URL (also reads FSTS_CATALOG_URL env)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Skip the remote catalog fetch and use the bundled snapshot")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", catalog.DefaultTimeout, "Remote catalog fetch timeout")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Load a saved option profile by name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write command output to a log file (also reads FSTS_LOG_FILE env)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func resolveCatalogURL() string {
	if catalogURL != "" {
		return catalogURL
	}
	if v := os.Getenv("FSTS_CATALOG_URL"); v != "" {
		return v
	}
	return catalog.DefaultURL
}

func loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	return catalog.Load(ctx, catalog.Options{
		URL:     resolveCatalogURL(),
		Timeout: timeout,
		Offline: offline,
	})
}

func colorWanted() bool {
	if noColor || os.Getenv("NO_COLOR") != "" || os.Getenv("FSTS_NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

func wrapUsageError(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if validate == nil {
			return nil
		}
		if err := validate(cmd, args); err != nil {
			return wrapUsageError(err)
		}
		return nil
	}
}

func isUsageError(err error) bool {
	var ue *usageError
	if errors.As(err, &ue) {
		return true
	}

	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command ")
}
