package cmd

import (
	"context"
	"errors"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/catalog"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/diagnose"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/games"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/logging"
)

var (
	checkHash   bool
	checkAll    bool
	checkReport string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the full diagnostic suite for a game",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(context.Background())
		if err != nil {
			return err
		}
		logging.Debugf("catalog %s loaded (%s)\n", cat.Version, cat.Source)

		if checkAll {
			return checkAllInstalled(cat)
		}

		if gameID == "" {
			return wrapUsageError(errors.New("--game is required (or use --all)"))
		}
		p, err := games.Resolve(gameID, cat)
		if err != nil {
			return err
		}

		runner := diagnose.New(cat)
		folder := gameFolder
		if folder == "" {
			if app, err := runner.FindApp(p.SteamAppID); err == nil {
				folder = app.InstallDir
				logging.Debugf("using Steam install at %s\n", folder)
			}
		}

		opts := diagnose.Options{GameFolder: folder, SaveFile: saveFile, Hash: checkHash}
		results := runner.Run(p, opts)
		printDiagnosis(p, cat, results)

		if checkReport != "" {
			rep, err := diagnose.NewReport(p, cat, opts, results, version)
			if err != nil {
				return err
			}
			if err := diagnose.WriteReport(afero.NewOsFs(), checkReport, rep); err != nil {
				return err
			}
			logging.Infof("\nReport written to %s\n", checkReport)
		}
		return nil
	},
}

func checkAllInstalled(cat *catalog.Catalog) error {
	runner := diagnose.New(cat)

	type gameResult struct {
		profile games.Profile
		results []diagnose.Result
	}
	var ran []gameResult

	for _, p := range games.All() {
		app, err := runner.FindApp(p.SteamAppID)
		if err != nil {
			logging.Debugf("skipping %s: %v\n", p.ID, err)
			continue
		}
		bound, err := games.Resolve(p.ID, cat)
		if err != nil {
			logging.Infof("Skipping %s: %v\n", p.Name, err)
			continue
		}

		logging.Colorf("\n=== [bold]%s[reset] (%s) ===\n", bound.Name, app.InstallDir)
		results := runner.Run(bound, diagnose.Options{GameFolder: app.InstallDir, Hash: checkHash})
		printResults(results)
		ran = append(ran, gameResult{profile: bound, results: results})
	}

	if len(ran) == 0 {
		logging.Infoln("No supported games found in Steam libraries.")
		return nil
	}

	logging.Infoln("\n=== Summary ===")
	for _, r := range ran {
		errs, warns := countProblems(r.results)
		if errs == 0 && warns == 0 {
			logging.Colorf("  %-24s [green]OK[reset]\n", r.profile.ID)
		} else {
			logging.Colorf("  %-24s [red]%d problems[reset], [yellow]%d warnings[reset]\n", r.profile.ID, errs, warns)
		}
	}
	return nil
}

func printDiagnosis(p games.Profile, cat *catalog.Catalog, results []diagnose.Result) {
	logging.Colorf("[bold]%s[reset] — catalog %s (%s)\n\n", p.Name, cat.Version, cat.Source)
	printResults(results)

	errs, warns := countProblems(results)
	if errs == 0 && warns == 0 {
		logging.Colorf("\n[green]All %d checks passed.[reset]\n", len(results))
	} else {
		logging.Colorf("\n[red]%d problems[reset], [yellow]%d warnings[reset] across %d checks.\n", errs, warns, len(results))
	}
}

func printResults(results []diagnose.Result) {
	for _, r := range results {
		logging.Colorf(statusTag(r.Status)+" %s: %s\n", r.Name, r.Message)
		if r.FixAvailable {
			logging.Colorf("       [cyan]fix:[reset] %s\n", r.FixAction)
		}
	}
}

func statusTag(s diagnose.Status) string {
	switch s {
	case diagnose.StatusOK:
		return "[green][ OK ][reset]"
	case diagnose.StatusWarning:
		return "[yellow][WARN][reset]"
	case diagnose.StatusError:
		return "[red][FAIL][reset]"
	default:
		return "[blue][INFO][reset]"
	}
}

func countProblems(results []diagnose.Result) (errs, warns int) {
	for _, r := range results {
		switch r.Status {
		case diagnose.StatusError:
			errs++
		case diagnose.StatusWarning:
			warns++
		}
	}
	return
}

func init() {
	checkCmd.Flags().BoolVar(&checkHash, "hash", false, "Also compare SHA-256 digests for catalog entries that carry one")
	checkCmd.Flags().BoolVar(&checkAll, "all", false, "Check every supported game found in Steam libraries")
	checkCmd.Flags().StringVar(&checkReport, "report", "", "Write a JSON diagnostic report to this file")
	rootCmd.AddCommand(checkCmd)
}
