package mcp

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestText(t *testing.T) {
	r := &Response{Blocks: []Block{
		{Type: "text", Text: "first"},
		{Type: "image", Data: "aGk="},
		{Type: "text", Text: "second"},
	}}
	if got := r.Text(); got != "first\nsecond" {
		t.Fatalf("Text() = %q, want %q", got, "first\nsecond")
	}
	empty := &Response{}
	if got := empty.Text(); got != "" {
		t.Fatalf("Text() on empty response = %q, want empty", got)
	}
}

func TestPayloadDecodesJSONBlock(t *testing.T) {
	r := TextResponse(`{"nodes":[{"role":"button","name":"Verify"}]}`)
	payload, ok := r.Payload()
	if !ok {
		t.Fatal("Payload() reported no JSON block")
	}
	m, ok := payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type = %T, want map", payload)
	}
	if _, ok := m["nodes"]; !ok {
		t.Fatal("decoded payload missing nodes key")
	}
}

func TestPayloadSkipsNonJSONText(t *testing.T) {
	r := TextResponse("- button \"Verify\" [ref=e5]", `["a","b"]`)
	payload, ok := r.Payload()
	if !ok {
		t.Fatal("Payload() should find the second, JSON block")
	}
	list, ok := payload.([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("payload = %#v, want two-element list", payload)
	}
}

func TestPayloadNoneFound(t *testing.T) {
	r := TextResponse("plain prose, no structure")
	if _, ok := r.Payload(); ok {
		t.Fatal("Payload() = ok for non-JSON text")
	}
	if _, ok := (&Response{}).Payload(); ok {
		t.Fatal("Payload() = ok for empty response")
	}
}

func TestAsSnapshotPayloadShape(t *testing.T) {
	r := &Response{Blocks: []Block{
		{Type: "text", Text: "yaml here"},
		{Type: "image", Data: "aGk=", MIME: "image/png"},
	}}
	payload := r.AsSnapshotPayload()
	m, ok := payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type = %T, want map", payload)
	}
	blocks, ok := m["content"].([]any)
	if !ok || len(blocks) != 2 {
		t.Fatalf("content = %#v, want two blocks", m["content"])
	}
	first, ok := blocks[0].(map[string]any)
	if !ok || first["type"] != "text" || first["text"] != "yaml here" {
		t.Fatalf("first block = %#v", blocks[0])
	}
}

func TestFirstImage(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G'}
	r := &Response{Blocks: []Block{
		{Type: "text", Text: "caption"},
		{Type: "image", Data: base64.StdEncoding.EncodeToString(raw), MIME: "image/png"},
	}}
	data, mime, err := r.FirstImage()
	if err != nil {
		t.Fatalf("FirstImage() error: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("mime = %q, want image/png", mime)
	}
	if string(data) != string(raw) {
		t.Errorf("data = %v, want %v", data, raw)
	}
}

func TestFirstImageMissing(t *testing.T) {
	r := TextResponse("no image")
	if _, _, err := r.FirstImage(); !errors.Is(err, ErrNoImage) {
		t.Fatalf("err = %v, want ErrNoImage", err)
	}
}

func TestFirstImageBadBase64(t *testing.T) {
	r := &Response{Blocks: []Block{{Type: "image", Data: "not-base64!!"}}}
	if _, _, err := r.FirstImage(); err == nil {
		t.Fatal("expected decode error")
	}
}
