package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/webtrial/internal/mcp"
	"github.com/mj1618/webtrial/internal/model"
	"github.com/mj1618/webtrial/internal/output"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Check connectivity to the browser-automation server",
	Long:  "Connect to the browser-automation server, report the negotiated protocol version and the advertised tools. With --url, also navigate there once and count the nodes in a snapshot.",
	RunE:  runSmoke,
}

func init() {
	rootCmd.AddCommand(smokeCmd)
	addServerFlags(smokeCmd)
	smokeCmd.Flags().String("url", "", "Navigate here and count snapshot nodes as a probe")
}

// SmokeResult reports the handshake outcome and the server's tool catalog.
type SmokeResult struct {
	OK         bool           `yaml:"ok"                    json:"ok"`
	Server     string         `yaml:"server"                json:"server"`
	ServerName string         `yaml:"server_name,omitempty" json:"server_name,omitempty"`
	Transport  string         `yaml:"transport"             json:"transport"`
	Protocol   string         `yaml:"protocol"              json:"protocol"`
	Tools      []mcp.ToolInfo `yaml:"tools"                 json:"tools"`
	Nodes      *int           `yaml:"nodes,omitempty"       json:"nodes,omitempty"`
}

func runSmoke(cmd *cobra.Command, args []string) error {
	applyServerFlags(cmd, cfg)
	ctx := cmd.Context()

	client, err := mcp.Connect(ctx, mcp.Options{
		ServerURL: cfg.Server.URL,
		Transport: cfg.Server.Transport,
		Timeout:   cfg.Server.Timeout,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	tools, err := client.ListTools(ctx)
	if err != nil {
		return err
	}

	result := SmokeResult{
		OK:         true,
		Server:     cfg.Server.URL,
		ServerName: client.ServerName(),
		Transport:  cfg.Server.Transport,
		Protocol:   client.Protocol(),
		Tools:      tools,
	}

	if url, _ := cmd.Flags().GetString("url"); url != "" {
		if err := mcp.Navigate(ctx, client, url); err != nil {
			return err
		}
		resp, err := mcp.Snapshot(ctx, client)
		if err != nil {
			return err
		}
		n := len(model.Normalize(resp.AsSnapshotPayload()))
		result.Nodes = &n
	}

	return output.Print(result)
}
