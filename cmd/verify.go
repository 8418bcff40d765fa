package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/catalog"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/games"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/logging"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/steam"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/verify"
)

var (
	verifyHash bool
	verifyJSON bool
	verifySkip []string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify tracked game files against the reference catalog",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		if gameID == "" {
			return wrapUsageError(errors.New("--game is required"))
		}

		cat, err := loadCatalog(context.Background())
		if err != nil {
			return err
		}
		p, err := games.Resolve(gameID, cat)
		if err != nil {
			return err
		}
		if len(verifySkip) > 0 {
			p.Files = filterTracked(p.Files, verifySkip)
		}

		folder := gameFolder
		if folder == "" {
			if app, err := steam.New().FindApp(p.SteamAppID); err == nil {
				folder = app.InstallDir
				logging.Debugf("using Steam install at %s\n", folder)
			}
		}
		if folder == "" {
			return wrapUsageError(errors.New("--game-folder is required (no Steam install found)"))
		}

		opts := verify.Options{Hash: verifyHash}
		var bar *progressbar.ProgressBar
		if verifyHash && !verifyJSON && term.IsTerminal(int(os.Stdout.Fd())) {
			bar = progressbar.NewOptions(len(p.Files),
				progressbar.OptionSetDescription("hashing"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			opts.Progress = func(done, total int, v verify.FileVerdict) {
				_ = bar.Add(1)
			}
		}

		verdicts := verify.New(opts).Verify(p, folder)
		if bar != nil {
			_ = bar.Finish()
		}

		if verifyJSON {
			return printVerdictsJSON(verdicts)
		}
		printVerdicts(p, cat, folder, verdicts)
		return nil
	},
}

func filterTracked(files []catalog.TrackedFile, skip []string) []catalog.TrackedFile {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[filepath.ToSlash(s)] = true
	}
	var kept []catalog.TrackedFile
	for _, tf := range files {
		if !skipped[tf.Path] {
			kept = append(kept, tf)
		}
	}
	return kept
}

func printVerdicts(p games.Profile, cat *catalog.Catalog, folder string, verdicts []verify.FileVerdict) {
	logging.Colorf("[bold]%s[reset] at %s — catalog %s (%s)\n\n", p.Name, folder, cat.Version, cat.Source)

	okCount := 0
	for _, v := range verdicts {
		logging.Colorf(verdictTag(v.Status)+" %-40s %s\n", v.Path, verdictDetail(v))
		if v.Status == verify.StatusOK {
			okCount++
		}
	}
	logging.Infof("\n%d of %d tracked files OK.\n", okCount, len(verdicts))
}

func verdictTag(s verify.Status) string {
	switch s {
	case verify.StatusOK:
		return "[green][ OK ][reset]"
	case verify.StatusAbsent:
		return "[blue][INFO][reset]"
	default:
		return "[red][FAIL][reset]"
	}
}

func verdictDetail(v verify.FileVerdict) string {
	switch v.Status {
	case verify.StatusOK:
		if v.Hash != "" {
			return fmt.Sprintf("%d bytes, hash ok", v.Size)
		}
		return fmt.Sprintf("%d bytes", v.Size)
	case verify.StatusSizeMismatch:
		return fmt.Sprintf("%d bytes, expected %d..%d", v.Size, v.WantMin, v.WantMax)
	case verify.StatusHashMismatch:
		return fmt.Sprintf("hash %s, expected %s", shortHash(v.Hash), shortHash(v.WantHash))
	case verify.StatusMissing:
		return "missing"
	case verify.StatusAbsent:
		return "not present (optional)"
	default:
		return fmt.Sprintf("unreadable: %v", v.Err)
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func printVerdictsJSON(verdicts []verify.FileVerdict) error {
	type row struct {
		Path     string `json:"path"`
		Status   string `json:"status"`
		Size     int64  `json:"size,omitempty"`
		WantMin  int64  `json:"want_min"`
		WantMax  int64  `json:"want_max"`
		Hash     string `json:"hash,omitempty"`
		WantHash string `json:"want_hash,omitempty"`
		Error    string `json:"error,omitempty"`
	}

	rows := make([]row, 0, len(verdicts))
	for _, v := range verdicts {
		r := row{
			Path:     v.Path,
			Status:   v.Status.String(),
			Size:     v.Size,
			WantMin:  v.WantMin,
			WantMax:  v.WantMax,
			Hash:     v.Hash,
			WantHash: v.WantHash,
		}
		if v.Err != nil {
			r.Error = v.Err.Error()
		}
		rows = append(rows, r)
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	logging.Infof("%s\n", data)
	return nil
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyHash, "hash", false, "Also compare SHA-256 digests for catalog entries that carry one")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "Emit verdicts as JSON")
	verifyCmd.Flags().StringArrayVar(&verifySkip, "skip", nil, "Tracked path to skip (repeatable)")
	rootCmd.AddCommand(verifyCmd)
}
