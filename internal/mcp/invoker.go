package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Invoker is the remote tool-invocation interface. The production
// implementation speaks MCP to a browser-automation server; tests use the
// scripted implementation in this package.
type Invoker interface {
	Invoke(ctx context.Context, tool string, args map[string]any) (*Response, error)
	Close() error
}

// ErrNoImage is returned when an image is requested from a response that
// carries none.
var ErrNoImage = errors.New("response has no image content")

// Block is one content block of a tool result.
type Block struct {
	Type string // "text" or "image"
	Text string // text blocks
	Data string // base64 payload for image blocks
	MIME string // image MIME type
}

// Response is a decoded tool result. Block order is preserved because the
// snapshot normalizer concatenates per-block results in order.
type Response struct {
	Blocks  []Block
	IsError bool
}

// TextResponse builds a response of plain text blocks, one per argument.
func TextResponse(texts ...string) *Response {
	r := &Response{}
	for _, t := range texts {
		r.Blocks = append(r.Blocks, Block{Type: "text", Text: t})
	}
	return r
}

// Text returns the concatenated text blocks.
func (r *Response) Text() string {
	var out string
	for _, b := range r.Blocks {
		if b.Type != "text" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += b.Text
	}
	return out
}

// Payload decodes the first text block that parses as JSON. Servers that
// wrap structured results in a single text block are unwrapped here; when
// no block parses, the second return is false.
func (r *Response) Payload() (any, bool) {
	for _, b := range r.Blocks {
		if b.Type != "text" {
			continue
		}
		trimmed := strings.TrimSpace(b.Text)
		if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
			continue
		}
		var decoded any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			return decoded, true
		}
	}
	return nil, false
}

// AsSnapshotPayload re-shapes the response into the raw payload form the
// snapshot normalizer consumes: a map carrying the ordered content blocks.
func (r *Response) AsSnapshotPayload() any {
	blocks := make([]any, 0, len(r.Blocks))
	for _, b := range r.Blocks {
		switch b.Type {
		case "text":
			blocks = append(blocks, map[string]any{"type": "text", "text": b.Text})
		case "image":
			blocks = append(blocks, map[string]any{"type": "image", "data": b.Data, "mimeType": b.MIME})
		}
	}
	return map[string]any{"content": blocks}
}

// FirstImage decodes the first image block.
func (r *Response) FirstImage() ([]byte, string, error) {
	for _, b := range r.Blocks {
		if b.Type != "image" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(b.Data)
		if err != nil {
			return nil, "", fmt.Errorf("decode image block: %w", err)
		}
		return data, b.MIME, nil
	}
	return nil, "", ErrNoImage
}
