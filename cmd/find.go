package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mj1618/webtrial/internal/mcp"
	"github.com/mj1618/webtrial/internal/model"
	"github.com/mj1618/webtrial/internal/output"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Locate the action target or verdict node on the current page",
	Long:  "Snapshot the current page and run the element matcher against it: by default the action-target cascade over --intent phrases, or with --verdict the verdict lookup over --phrase values. Prints the match, or a diagnostic sample of what the page contained.",
	RunE:  runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	addServerFlags(findCmd)
	findCmd.Flags().String("url", "", "Navigate here before searching")
	findCmd.Flags().StringSlice("intent", nil, "Intent phrase for the action target, repeatable (overrides config)")
	findCmd.Flags().StringSlice("phrase", nil, "Verdict phrase, repeatable (overrides config, with --verdict)")
	findCmd.Flags().Bool("verdict", false, "Search for a verdict node instead of the action target")
}

// FindResult reports a matcher lookup against one snapshot.
type FindResult struct {
	OK     bool                  `yaml:"ok"               json:"ok"`
	Mode   string                `yaml:"mode"             json:"mode"`
	Match  *model.AccessibleNode `yaml:"match,omitempty"  json:"match,omitempty"`
	Nodes  int                   `yaml:"nodes"            json:"nodes"`
	Sample []string              `yaml:"sample,omitempty" json:"sample,omitempty"`
}

func runFind(cmd *cobra.Command, args []string) error {
	applyServerFlags(cmd, cfg)
	ctx := cmd.Context()

	inv, err := newInvoker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer inv.Close()

	url, _ := cmd.Flags().GetString("url")
	verdictMode, _ := cmd.Flags().GetBool("verdict")
	intents := phraseList(cmd, "intent", cfg.Run.Intents)
	phrases := phraseList(cmd, "phrase", append(cfg.Run.PassPhrases, cfg.Run.FailPhrases...))

	result, err := findMatch(ctx, inv, url, verdictMode, intents, phrases)
	if err != nil {
		return err
	}
	return output.Print(result)
}

// findMatch snapshots the page and runs the requested matcher. A missing
// match is reported in the result, not as an error, with a bounded
// role:name sample for diagnostics.
func findMatch(ctx context.Context, inv mcp.Invoker, url string, verdictMode bool, intents, phrases []string) (FindResult, error) {
	nodes, _, err := captureNodes(ctx, inv, url)
	if err != nil {
		return FindResult{}, err
	}

	var match *model.AccessibleNode
	mode := "target"
	if verdictMode {
		mode = "verdict"
		match = model.FindVerdict(nodes, phrases)
	} else {
		match = model.FindActionTarget(nodes, intents)
	}

	result := FindResult{OK: match != nil, Mode: mode, Match: match, Nodes: len(nodes)}
	if match == nil {
		result.Sample = model.SampleNodes(nodes, 8)
	}
	return result, nil
}
