package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mj1618/webtrial/internal/mcp"
)

func TestFindMatch_Target(t *testing.T) {
	inv := mcp.NewScriptedInvoker().
		Queue(mcp.ToolSnapshot, mcp.TextResponse(`[{"role":"button","name":"Verify","ref":"e5"}]`))

	res, err := findMatch(context.Background(), inv, "", false, []string{"verify"}, nil)
	if err != nil {
		t.Fatalf("findMatch: %v", err)
	}
	if !res.OK || res.Match == nil || res.Match.Ref != "e5" {
		t.Fatalf("expected target match on e5, got %+v", res)
	}
	if res.Mode != "target" {
		t.Errorf("mode = %q, want target", res.Mode)
	}
	if res.Nodes != 1 {
		t.Errorf("nodes = %d, want 1", res.Nodes)
	}
}

func TestFindMatch_VerdictMode(t *testing.T) {
	inv := mcp.NewScriptedInvoker().
		Queue(mcp.ToolSnapshot, mcp.TextResponse(`[{"role":"status","name":"PASS: reCAPTCHA"}]`))

	res, err := findMatch(context.Background(), inv, "", true, nil, []string{"pass"})
	if err != nil {
		t.Fatalf("findMatch: %v", err)
	}
	if !res.OK || res.Match == nil || !strings.Contains(res.Match.Name, "PASS") {
		t.Fatalf("expected verdict match, got %+v", res)
	}
	if res.Mode != "verdict" {
		t.Errorf("mode = %q, want verdict", res.Mode)
	}
}

func TestFindMatch_NoMatchReportsSample(t *testing.T) {
	inv := mcp.NewScriptedInvoker().
		Queue(mcp.ToolSnapshot, mcp.TextResponse(`[{"role":"heading","name":"Challenge"}]`))

	res, err := findMatch(context.Background(), inv, "", false, []string{"verify"}, nil)
	if err != nil {
		t.Fatalf("findMatch: %v", err)
	}
	if res.OK || res.Match != nil {
		t.Fatalf("expected no match, got %+v", res)
	}
	if res.Nodes != 1 || len(res.Sample) != 1 || res.Sample[0] != "heading:Challenge" {
		t.Errorf("diagnostics = nodes %d sample %v", res.Nodes, res.Sample)
	}
}

func TestFindMatch_NavigatesFirst(t *testing.T) {
	inv := mcp.NewScriptedInvoker().
		Queue(mcp.ToolSnapshot, mcp.TextResponse(`[{"role":"button","name":"Verify","ref":"e1"}]`))

	if _, err := findMatch(context.Background(), inv, "http://demo/recaptcha", false, []string{"verify"}, nil); err != nil {
		t.Fatalf("findMatch: %v", err)
	}

	calls := inv.Calls()
	if len(calls) != 2 || calls[0].Tool != mcp.ToolNavigate {
		t.Fatalf("expected navigate before snapshot, got %+v", calls)
	}
	if calls[0].Args["url"] != "http://demo/recaptcha" {
		t.Errorf("navigate url = %v", calls[0].Args["url"])
	}
}

func TestFindMatch_SnapshotError(t *testing.T) {
	inv := mcp.NewScriptedInvoker().
		QueueError(mcp.ToolSnapshot, errors.New("stream reset"))

	if _, err := findMatch(context.Background(), inv, "", false, []string{"verify"}, nil); err == nil {
		t.Fatal("expected snapshot error to propagate")
	}
}
