package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/catalog"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/logging"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the reference catalog",
}

var catalogJSON bool

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active catalog's provenance and contents",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(context.Background())
		if err != nil {
			return err
		}

		if catalogJSON {
			data, err := cat.DumpJSON()
			if err != nil {
				return err
			}
			logging.Infof("%s\n", data)
			return nil
		}

		logging.Colorf("Catalog [bold]%s[reset] (schema %d, source %s)\n", cat.Version, cat.Schema, cat.Source)
		for _, id := range cat.GameIDs() {
			files, _ := cat.TrackedFiles(id)
			if build, ok := cat.BuildID(id); ok {
				logging.Infof("  %-24s %2d tracked files, build %d\n", id, len(files), build)
			} else {
				logging.Infof("  %-24s %2d tracked files\n", id, len(files))
			}
		}
		return nil
	},
}

var catalogDiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the remote catalog against the bundled snapshot",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundled, err := catalog.LoadBundled()
		if err != nil {
			return err
		}
		remote, err := catalog.Fetch(context.Background(), resolveCatalogURL(), timeout)
		if err != nil {
			return err
		}

		changes := catalog.Diff(bundled, remote)
		added, removed, updated, unchanged := catalog.Summary(changes)
		if added+removed+updated == 0 {
			logging.Infof("Bundled snapshot %s matches remote catalog %s.\n", bundled.Version, remote.Version)
			return nil
		}

		for _, c := range changes {
			switch c.Type {
			case catalog.Added:
				logging.Colorf("[green]+ %s/%s[reset] %d..%d\n", c.GameID, c.Path, c.New.SizeMin, c.New.SizeMax)
			case catalog.Removed:
				logging.Colorf("[red]- %s/%s[reset]\n", c.GameID, c.Path)
			case catalog.Updated:
				logging.Colorf("[yellow]~ %s/%s[reset] %d..%d → %d..%d\n",
					c.GameID, c.Path, c.Old.SizeMin, c.Old.SizeMax, c.New.SizeMin, c.New.SizeMax)
			}
		}
		logging.Infof("\nBundled %s → remote %s: %d added, %d removed, %d updated, %d unchanged\n",
			bundled.Version, remote.Version, added, removed, updated, unchanged)
		return nil
	},
}

func init() {
	catalogShowCmd.Flags().BoolVar(&catalogJSON, "json", false, "Dump the catalog as JSON")
	catalogCmd.AddCommand(catalogShowCmd, catalogDiffCmd)
	rootCmd.AddCommand(catalogCmd)
}
