package model

import "testing"

func filterFixture() []AccessibleNode {
	return []AccessibleNode{
		{Role: "button", Name: "Verify", Ref: "e1"},
		{Role: "status", Name: "PASS: reCAPTCHA", Ref: "e2"},
		{Role: "heading", Name: "Challenge", Ref: "e3"},
		{Role: "textbox", Name: "Email", Description: "where we send the verdict", Ref: "e4"},
	}
}

func TestFilterNodesPassThrough(t *testing.T) {
	nodes := filterFixture()
	got := FilterNodes(nodes, "", "")
	if len(got) != len(nodes) {
		t.Fatalf("empty filters returned %d nodes, want %d", len(got), len(nodes))
	}
}

func TestFilterNodesByRole(t *testing.T) {
	got := FilterNodes(filterFixture(), "Status", "")
	if len(got) != 1 || got[0].Ref != "e2" {
		t.Fatalf("role filter = %+v, want single e2", got)
	}
}

func TestFilterNodesByText(t *testing.T) {
	got := FilterNodes(filterFixture(), "", "pass")
	if len(got) != 1 || got[0].Ref != "e2" {
		t.Fatalf("text filter = %+v, want single e2", got)
	}
}

func TestFilterNodesTextMatchesDescription(t *testing.T) {
	got := FilterNodes(filterFixture(), "", "verdict")
	if len(got) != 1 || got[0].Ref != "e4" {
		t.Fatalf("description match = %+v, want single e4", got)
	}
}

func TestFilterNodesCombined(t *testing.T) {
	got := FilterNodes(filterFixture(), "heading", "pass")
	if len(got) != 0 {
		t.Fatalf("role and text must both hold, got %+v", got)
	}

	got = FilterNodes(filterFixture(), "status", "recaptcha")
	if len(got) != 1 || got[0].Ref != "e2" {
		t.Fatalf("combined filter = %+v, want single e2", got)
	}
}

func TestFilterNodesNoMatch(t *testing.T) {
	if got := FilterNodes(filterFixture(), "alert", ""); len(got) != 0 {
		t.Errorf("unknown role matched %+v", got)
	}
	if got := FilterNodes(nil, "button", "x"); len(got) != 0 {
		t.Errorf("nil input matched %+v", got)
	}
}
