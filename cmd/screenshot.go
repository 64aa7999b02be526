package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/webtrial/internal/imaging"
	"github.com/mj1618/webtrial/internal/mcp"
	"github.com/mj1618/webtrial/internal/output"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture a screenshot of the current page",
	Long:  "Capture a full-page screenshot via the browser server and save it as PNG, optionally downscaled to --max-width pixels.",
	RunE:  runScreenshot,
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	addServerFlags(screenshotCmd)
	screenshotCmd.Flags().String("url", "", "Navigate here before capturing")
	screenshotCmd.Flags().String("output", "screenshot.png", "Output file path")
	screenshotCmd.Flags().Int("max-width", 0, "Downscale to at most this many pixels wide (0 = keep original)")
}

// ScreenshotResult reports a saved screenshot.
type ScreenshotResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Path   string `yaml:"path"   json:"path"`
	Width  int    `yaml:"width"  json:"width"`
	Height int    `yaml:"height" json:"height"`
	Bytes  int    `yaml:"bytes"  json:"bytes"`
}

func runScreenshot(cmd *cobra.Command, args []string) error {
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

	data, _, err := mcp.TakeScreenshot(ctx, inv)
	if err != nil {
		return err
	}

	img, _, err := imaging.Decode(data)
	if err != nil {
		return err
	}
	maxWidth, _ := cmd.Flags().GetInt("max-width")
	img = imaging.Downscale(img, maxWidth)
	encoded, err := imaging.EncodePNG(img)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("output")
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return err
	}

	return output.Print(ScreenshotResult{
		OK:     true,
		Path:   path,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Bytes:  len(encoded),
	})
}
