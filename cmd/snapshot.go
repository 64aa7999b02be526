package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mj1618/webtrial/internal/mcp"
	"github.com/mj1618/webtrial/internal/model"
	"github.com/mj1618/webtrial/internal/output"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture and normalize an accessibility snapshot",
	Long:  "Capture the current page's accessibility snapshot and print the normalized node list. With --url the page is navigated to first; with --raw the payload is printed verbatim instead of normalized.",
	RunE:  runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	addServerFlags(snapshotCmd)
	snapshotCmd.Flags().String("url", "", "Navigate here before capturing")
	snapshotCmd.Flags().Bool("raw", false, "Print the raw payload instead of normalized nodes")
}

// SnapshotResult is the normalized node list of one capture.
type SnapshotResult struct {
	Count int                    `yaml:"count" json:"count"`
	Nodes []model.AccessibleNode `yaml:"nodes" json:"nodes"`
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	applyServerFlags(cmd, cfg)
	ctx := cmd.Context()

	inv, err := newInvoker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer inv.Close()

	url, _ := cmd.Flags().GetString("url")
	nodes, payload, err := captureNodes(ctx, inv, url)
	if err != nil {
		return err
	}

	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		return output.Print(payload)
	}
	return output.Print(SnapshotResult{Count: len(nodes), Nodes: nodes})
}

// captureNodes optionally navigates, then snapshots and normalizes. The
// raw payload is returned alongside the nodes for --raw printing.
func captureNodes(ctx context.Context, inv mcp.Invoker, url string) ([]model.AccessibleNode, any, error) {
	if url != "" {
		if err := mcp.Navigate(ctx, inv, url); err != nil {
			return nil, nil, err
		}
	}
	resp, err := mcp.Snapshot(ctx, inv)
	if err != nil {
		return nil, nil, err
	}
	payload := resp.AsSnapshotPayload()
	return model.Normalize(payload), payload, nil
}
