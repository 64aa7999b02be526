package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mj1618/webtrial/internal/harness"
	"github.com/mj1618/webtrial/internal/history"
	"github.com/mj1618/webtrial/internal/output"
	"github.com/mj1618/webtrial/internal/storage"
	"github.com/mj1618/webtrial/internal/verify"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run repeated verification trials against the target page",
	Long: `Run N sequential trials: each trial navigates to the target page, waits
for it to settle, clicks the verification control and reads the verdict
element. Latency percentiles and a per-trial CSV ledger are produced at
the end. Only a failed connection to the browser server aborts the run;
every per-trial failure is recorded as an ERROR outcome.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addServerFlags(runCmd)
	runCmd.Flags().Int("trials", 0, "Number of trials (overrides config)")
	runCmd.Flags().String("url", "", "Target page URL (overrides config)")
	runCmd.Flags().StringSlice("intent", nil, "Intent phrase for the action target, repeatable (overrides config)")
	runCmd.Flags().StringSlice("pass-phrase", nil, "Verdict phrase counted as PASS, repeatable (overrides config)")
	runCmd.Flags().StringSlice("fail-phrase", nil, "Verdict phrase counted as FAIL, repeatable (overrides config)")
	runCmd.Flags().Int("settle", 0, "Seconds to let the page settle before each snapshot (overrides config)")
	runCmd.Flags().String("out-dir", "", "Directory for the CSV export (overrides config)")
	runCmd.Flags().String("dump-dir", "", "Directory for diagnostic dumps and failure screenshots (overrides config)")
	runCmd.Flags().String("verify-url", "", "Verification service base URL for server-side polling (overrides config)")
	runCmd.Flags().Bool("poll-server", false, "Poll the verification service metrics after each trial")
	runCmd.Flags().Bool("screenshot-on-fail", false, "Save a screenshot to the dump dir after each non-PASS trial")
	runCmd.Flags().Bool("no-csv", false, "Skip the CSV export")
	runCmd.Flags().Bool("no-history", false, "Skip recording the run in the history database")
}

// RunResult is the printed summary of a completed run.
type RunResult struct {
	RunID      string          `yaml:"run_id"             json:"run_id"`
	Trials     int             `yaml:"trials"             json:"trials"`
	Passed     int             `yaml:"passed"             json:"passed"`
	Failed     int             `yaml:"failed"             json:"failed"`
	Errored    int             `yaml:"errored"            json:"errored"`
	DurationMS int64           `yaml:"duration_ms"        json:"duration_ms"`
	Stats      harness.Stats   `yaml:"stats"              json:"stats"`
	CSVPath    string          `yaml:"csv_path,omitempty" json:"csv_path,omitempty"`
	Results    []harness.Trial `yaml:"results"            json:"results"`
}

func runRun(cmd *cobra.Command, args []string) error {
	applyServerFlags(cmd, cfg)
	ctx := cmd.Context()

	opts := harness.RunnerOptions{
		TargetURL:        stringFlagOr(cmd, "url", cfg.Target.URL),
		SettleSeconds:    intFlagOr(cmd, "settle", cfg.Run.SettleSeconds),
		Intents:          phraseList(cmd, "intent", cfg.Run.Intents),
		PassPhrases:      phraseList(cmd, "pass-phrase", cfg.Run.PassPhrases),
		FailPhrases:      phraseList(cmd, "fail-phrase", cfg.Run.FailPhrases),
		DumpDir:          stringFlagOr(cmd, "dump-dir", cfg.Output.DumpDir),
		ScreenshotOnFail: boolFlagOr(cmd, "screenshot-on-fail", false),
	}
	trials := intFlagOr(cmd, "trials", cfg.Run.Trials)

	inv, err := newInvoker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer inv.Close()

	var source harness.VerdictSource
	if boolFlagOr(cmd, "poll-server", cfg.Verify.Enabled) {
		source = verify.NewClient(stringFlagOr(cmd, "verify-url", cfg.Verify.URL), log)
	}

	runner := harness.NewRunner(inv, log, opts)
	summary := harness.NewAggregator(runner, trials, source, log).Run(ctx)

	csvPath := ""
	if noCSV, _ := cmd.Flags().GetBool("no-csv"); !noCSV {
		outDir := stringFlagOr(cmd, "out-dir", cfg.Output.Dir)
		csvPath, err = harness.WriteCSV(outDir, summary.StartedAt, summary.Trials)
		if err != nil {
			log.Warn(ctx, "csv export failed", map[string]interface{}{"error": err.Error()})
			csvPath = ""
		}
	}

	if noHistory, _ := cmd.Flags().GetBool("no-history"); cfg.History.Enabled && !noHistory {
		saveHistory(ctx, summary, csvPath)
	}
	if cfg.Artifacts.Enabled {
		archiveArtifacts(ctx, summary, csvPath, opts.DumpDir)
	}

	return output.Print(RunResult{
		RunID:      summary.RunID,
		Trials:     len(summary.Trials),
		Passed:     summary.Passed,
		Failed:     summary.Failed,
		Errored:    summary.Errored,
		DurationMS: summary.DurationMS,
		Stats:      summary.Stats,
		CSVPath:    csvPath,
		Results:    summary.Trials,
	})
}

// saveHistory records the run in the sqlite history database. Failures
// are logged and swallowed: the run already happened.
func saveHistory(ctx context.Context, summary *harness.RunSummary, csvPath string) {
	store, err := history.NewSqliteStore(cfg.History.Path, log)
	if err != nil {
		log.Warn(ctx, "history store unavailable", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := store.SaveRun(ctx, history.NewRunFromSummary(summary, csvPath)); err != nil {
		log.Warn(ctx, "history save failed", map[string]interface{}{"error": err.Error()})
		return
	}
	log.Info(ctx, "run recorded", map[string]interface{}{"run_id": summary.RunID, "path": cfg.History.Path})
}

// archiveArtifacts uploads the CSV and any first-trial dumps to the
// configured blob backend under runs/<runID>/. Failures are logged and
// swallowed.
func archiveArtifacts(ctx context.Context, summary *harness.RunSummary, csvPath, dumpDir string) {
	bs, err := storage.NewBlobStorage(storage.Config{
		Backend:  cfg.Artifacts.Backend,
		LocalDir: cfg.Artifacts.LocalDir,
		Bucket:   cfg.Artifacts.S3Bucket,
		Prefix:   cfg.Artifacts.S3Prefix,
		Region:   cfg.Artifacts.S3Region,
	})
	if err != nil {
		log.Warn(ctx, "artifact archive unavailable", map[string]interface{}{"error": err.Error()})
		return
	}

	upload := func(localPath string) {
		key := "runs/" + summary.RunID + "/" + filepath.Base(localPath)
		if err := storage.UploadFile(ctx, bs, key, localPath); err != nil {
			log.Warn(ctx, "artifact upload failed", map[string]interface{}{"key": key, "error": err.Error()})
			return
		}
		log.Info(ctx, "artifact archived", map[string]interface{}{"key": key})
	}

	if csvPath != "" {
		upload(csvPath)
	}
	for _, name := range []string{harness.DumpFirstRaw, harness.DumpFirstRetry} {
		p := filepath.Join(dumpDir, name)
		if _, err := os.Stat(p); err == nil {
			upload(p)
		}
	}
}
