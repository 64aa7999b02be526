package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/webtrial/internal/mcp"
	"github.com/mj1618/webtrial/internal/model"
	"github.com/mj1618/webtrial/internal/output"
)

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Find the action target and click it once",
	Long:  "Snapshot the current page, locate the action target by --intent phrases and click it. With --press-fallback a rejected click is retried once as an Enter key press, the same way the trial runner activates targets.",
	RunE:  runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	addServerFlags(clickCmd)
	clickCmd.Flags().String("url", "", "Navigate here before clicking")
	clickCmd.Flags().StringSlice("intent", nil, "Intent phrase for the action target, repeatable (overrides config)")
	clickCmd.Flags().Bool("press-fallback", false, "Fall back to pressing Enter when the click is rejected")
}

// ClickResult reports a one-off click.
type ClickResult struct {
	OK       bool                  `yaml:"ok"                 json:"ok"`
	Target   *model.AccessibleNode `yaml:"target"             json:"target"`
	Fallback bool                  `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

func runClick(cmd *cobra.Command, args []string) error {
	applyServerFlags(cmd, cfg)
	ctx := cmd.Context()

	inv, err := newInvoker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer inv.Close()

	url, _ := cmd.Flags().GetString("url")
	intents := phraseList(cmd, "intent", cfg.Run.Intents)

	nodes, _, err := captureNodes(ctx, inv, url)
	if err != nil {
		return err
	}
	target := model.FindActionTarget(nodes, intents)
	if target == nil {
		sample := strings.Join(model.SampleNodes(nodes, 8), ", ")
		return fmt.Errorf("no element matches intents %v: %d nodes seen, sample [%s]", intents, len(nodes), sample)
	}

	result := ClickResult{OK: true, Target: target}
	if clickErr := mcp.Click(ctx, inv, target.Name, target.Ref); clickErr != nil {
		fallback, _ := cmd.Flags().GetBool("press-fallback")
		if !fallback {
			return clickErr
		}
		log.Warn(ctx, "click rejected, pressing Enter", map[string]interface{}{"error": clickErr.Error()})
		if pressErr := mcp.PressKey(ctx, inv, "Enter"); pressErr != nil {
			return fmt.Errorf("activate target: click: %v; enter fallback: %w", clickErr, pressErr)
		}
		result.Fallback = true
	}

	return output.Print(result)
}
