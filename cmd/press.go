package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/webtrial/internal/mcp"
	"github.com/mj1618/webtrial/internal/output"
)

var pressCmd = &cobra.Command{
	Use:   "press",
	Short: "Send a single key press to the page",
	RunE:  runPress,
}

func init() {
	rootCmd.AddCommand(pressCmd)
	addServerFlags(pressCmd)
	pressCmd.Flags().String("key", "Enter", "Key to press")
}

// PressResult reports a one-off key press.
type PressResult struct {
	OK  bool   `yaml:"ok"  json:"ok"`
	Key string `yaml:"key" json:"key"`
}

func runPress(cmd *cobra.Command, args []string) error {
	applyServerFlags(cmd, cfg)
	ctx := cmd.Context()

	inv, err := newInvoker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer inv.Close()

	key, _ := cmd.Flags().GetString("key")
	if err := mcp.PressKey(ctx, inv, key); err != nil {
		return err
	}
	return output.Print(PressResult{OK: true, Key: key})
}
