package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/webtrial/internal/mcp"
	"github.com/mj1618/webtrial/internal/model"
	"github.com/mj1618/webtrial/internal/output"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for a page condition to be met",
	Long:  "Poll accessibility snapshots until an element matching --for-text and/or --for-role appears (or, with --gone, disappears), or the timeout elapses.",
	RunE:  runWait,
}

func init() {
	rootCmd.AddCommand(waitCmd)
	addServerFlags(waitCmd)
	waitCmd.Flags().String("url", "", "Navigate here before polling")
	waitCmd.Flags().String("for-text", "", "Wait for a node whose name or description contains this text")
	waitCmd.Flags().String("for-role", "", "Wait for a node with this role")
	waitCmd.Flags().Bool("gone", false, "Invert: wait until the condition is NO LONGER true")
	waitCmd.Flags().Int("timeout", 30, "Max seconds to wait")
	waitCmd.Flags().Int("interval", 500, "Polling interval in milliseconds")
}

// WaitResult is the outcome of a wait command.
type WaitResult struct {
	OK       bool   `yaml:"ok"                  json:"ok"`
	Elapsed  string `yaml:"elapsed"             json:"elapsed"`
	Match    string `yaml:"match"               json:"match"`
	TimedOut bool   `yaml:"timed_out,omitempty" json:"timed_out,omitempty"`
}

// waitSpec is one polling condition.
type waitSpec struct {
	Role     string
	Text     string
	Gone     bool
	Timeout  time.Duration
	Interval time.Duration
}

func runWait(cmd *cobra.Command, args []string) error {
	forText, _ := cmd.Flags().GetString("for-text")
	forRole, _ := cmd.Flags().GetString("for-role")
	if forText == "" && forRole == "" {
		return fmt.Errorf("specify at least one condition: --for-text or --for-role")
	}

	applyServerFlags(cmd, cfg)
	ctx := cmd.Context()

	inv, err := newInvoker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer inv.Close()

	if url, _ := cmd.Flags().GetString("url"); url != "" {
		if err := mcp.Navigate(ctx, inv, url); err != nil {
			return err
		}
	}

	gone, _ := cmd.Flags().GetBool("gone")
	timeoutSec, _ := cmd.Flags().GetInt("timeout")
	intervalMs, _ := cmd.Flags().GetInt("interval")

	result, err := awaitCondition(ctx, inv, waitSpec{
		Role:     forRole,
		Text:     forText,
		Gone:     gone,
		Timeout:  time.Duration(timeoutSec) * time.Second,
		Interval: time.Duration(intervalMs) * time.Millisecond,
	})
	if perr := output.Print(result); perr != nil {
		return perr
	}
	return err
}

// awaitCondition polls snapshots until the condition holds or the timeout
// elapses. The result is always populated; a non-nil error means timeout
// so the command exits non-zero.
func awaitCondition(ctx context.Context, inv mcp.Invoker, spec waitSpec) (WaitResult, error) {
	desc := describeCondition(spec)
	start := time.Now()
	deadline := start.Add(spec.Timeout)

	for {
		resp, err := mcp.Snapshot(ctx, inv)
		if err != nil {
			if time.Now().After(deadline) {
				return WaitResult{Elapsed: elapsedString(start), Match: desc, TimedOut: true},
					fmt.Errorf("timeout after %s (last error: %w)", spec.Timeout, err)
			}
			time.Sleep(spec.Interval)
			continue
		}

		nodes := model.Normalize(resp.AsSnapshotPayload())
		matched := len(model.FilterNodes(nodes, spec.Role, spec.Text)) > 0

		conditionMet := matched
		if spec.Gone {
			conditionMet = !matched
		}
		if conditionMet {
			return WaitResult{OK: true, Elapsed: elapsedString(start), Match: desc}, nil
		}

		if time.Now().After(deadline) {
			return WaitResult{Elapsed: elapsedString(start), Match: desc, TimedOut: true},
				fmt.Errorf("timed out waiting for condition: %s", desc)
		}
		time.Sleep(spec.Interval)
	}
}

// describeCondition renders the condition for logs and output.
func describeCondition(spec waitSpec) string {
	var parts []string
	if spec.Role != "" {
		parts = append(parts, fmt.Sprintf("role=%s", spec.Role))
	}
	if spec.Text != "" {
		parts = append(parts, fmt.Sprintf("text=%q", spec.Text))
	}
	desc := strings.Join(parts, " ")
	if spec.Gone {
		desc += " (gone)"
	}
	return desc
}

func elapsedString(start time.Time) string {
	return fmt.Sprintf("%.1fs", time.Since(start).Seconds())
}
