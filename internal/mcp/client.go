package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mj1618/webtrial/internal/logger"
	"github.com/mj1618/webtrial/internal/version"
)

// ProtocolCandidates are the MCP protocol versions tried during the
// initialize handshake, in order. The broadly compatible version goes
// first; the first candidate the server accepts wins.
var ProtocolCandidates = []string{"2024-11-05", "2025-06-18"}

// Options configure the connection to the remote browser server.
type Options struct {
	ServerURL string
	Transport string        // "sse" or "http"
	Timeout   time.Duration // per-call budget, 0 means no limit
	Logger    logger.Logger
}

// ToolInfo describes one tool advertised by the server.
type ToolInfo struct {
	Name        string `yaml:"name"                  json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Client is the production Invoker: an MCP client bound to a remote
// browser-automation server over SSE or streamable HTTP.
type Client struct {
	c        *client.Client
	log      logger.Logger
	timeout  time.Duration
	protocol string
	server   string
}

// Connect dials the server and performs the initialize handshake, trying
// each protocol candidate in order on a fresh connection until one
// succeeds. Failure of every candidate is the fatal startup condition:
// the returned error should abort the run before any trial starts.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewLogrusLogger("info", "text")
	}

	var lastErr error
	for _, proto := range ProtocolCandidates {
		c, err := dial(opts)
		if err != nil {
			return nil, fmt.Errorf("create mcp client: %w", err)
		}

		serverName, err := initialize(ctx, c, proto, opts.Timeout)
		if err != nil {
			c.Close()
			lastErr = err
			log.Debug(ctx, "initialize attempt failed", map[string]interface{}{
				"protocol": proto,
				"error":    err.Error(),
			})
			continue
		}

		wrapped := &Client{c: c, log: log, timeout: opts.Timeout, protocol: proto, server: serverName}
		log.Info(ctx, "mcp session established", map[string]interface{}{
			"server":    opts.ServerURL,
			"transport": opts.Transport,
			"protocol":  proto,
		})
		return wrapped, nil
	}

	return nil, fmt.Errorf("connect to mcp server %s: all protocol versions failed: %w", opts.ServerURL, lastErr)
}

// dial builds the transport-specific client. SSE expects the /sse
// endpoint, streamable HTTP the /mcp endpoint; both are left to the
// caller's URL.
func dial(opts Options) (*client.Client, error) {
	switch opts.Transport {
	case "sse":
		return client.NewSSEMCPClient(opts.ServerURL)
	case "http":
		return client.NewStreamableHttpClient(opts.ServerURL)
	default:
		return nil, fmt.Errorf("unsupported transport: %s (use sse or http)", opts.Transport)
	}
}

// initialize runs the transport start plus handshake and reports the
// server implementation name on success.
func initialize(ctx context.Context, c *client.Client, proto string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := c.Start(ctx); err != nil {
		return "", fmt.Errorf("start transport: %w", err)
	}

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = proto
	req.Params.ClientInfo = mcp.Implementation{Name: "webtrial", Version: version.Version}
	req.Params.Capabilities = mcp.ClientCapabilities{}

	res, err := c.Initialize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("initialize (protocol %s): %w", proto, err)
	}
	return res.ServerInfo.Name, nil
}

// Protocol returns the negotiated protocol version.
func (c *Client) Protocol() string { return c.protocol }

// ServerName returns the server implementation name reported at
// initialize time, when known.
func (c *Client) ServerName() string { return c.server }

// ListTools fetches the server's tool catalog.
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	res, err := c.c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}

	tools := make([]ToolInfo, 0, len(res.Tools))
	for _, t := range res.Tools {
		tools = append(tools, ToolInfo{Name: t.Name, Description: t.Description})
	}
	return tools, nil
}

// Invoke calls one tool and decodes the result. Tool-level failures
// (IsError results) and transport failures both surface as errors wrapped
// with the tool name, so callers have a single failure path.
func (c *Client) Invoke(ctx context.Context, tool string, args map[string]any) (*Response, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	c.log.Debug(ctx, "invoking tool", map[string]interface{}{"tool": tool, "args": args})

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	res, err := c.c.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", tool, err)
	}

	resp := decodeResult(res)
	if resp.IsError {
		return resp, fmt.Errorf("tool %s failed: %s", tool, snippet(resp.Text()))
	}
	return resp, nil
}

// Close tears down the transport.
func (c *Client) Close() error {
	return c.c.Close()
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

// decodeResult maps the wire result into the transport-agnostic Response,
// preserving content-block order.
func decodeResult(res *mcp.CallToolResult) *Response {
	out := &Response{IsError: res.IsError}
	for _, content := range res.Content {
		if tc, ok := mcp.AsTextContent(content); ok {
			out.Blocks = append(out.Blocks, Block{Type: "text", Text: tc.Text})
			continue
		}
		if ic, ok := mcp.AsImageContent(content); ok {
			out.Blocks = append(out.Blocks, Block{Type: "image", Data: ic.Data, MIME: ic.MIMEType})
		}
	}
	return out
}

// snippet bounds an error message pulled from response text.
func snippet(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max] + "..."
	}
	if s == "" {
		return "(no error text)"
	}
	return s
}
