package model

import (
	"fmt"
	"strings"
)

// FindActionTarget locates the control to activate. Matching cascades
// through three tiers and returns on the first hit:
//
//  1. button role, name equals an intent phrase exactly
//  2. button role, name contains an intent phrase
//  3. button role, an id/test-id attribute value or the description
//     contains an intent phrase
//
// All comparisons are case-insensitive. Non-button roles never match.
// Returns nil when no tier produces a candidate.
func FindActionTarget(nodes []AccessibleNode, intents []string) *AccessibleNode {
	phrases := lowerAll(intents)

	for i := range nodes {
		if !isButton(nodes[i].Role) {
			continue
		}
		name := strings.ToLower(nodes[i].Name)
		for _, p := range phrases {
			if name == p {
				return copyOf(nodes[i])
			}
		}
	}

	for i := range nodes {
		if !isButton(nodes[i].Role) {
			continue
		}
		name := strings.ToLower(nodes[i].Name)
		for _, p := range phrases {
			if strings.Contains(name, p) {
				return copyOf(nodes[i])
			}
		}
	}

	for i := range nodes {
		if !isButton(nodes[i].Role) {
			continue
		}
		desc := strings.ToLower(nodes[i].Description)
		for _, p := range phrases {
			if idAttributesContain(nodes[i].Attributes, p) || strings.Contains(desc, p) {
				return copyOf(nodes[i])
			}
		}
	}

	return nil
}

// FindVerdict locates the outcome indicator: the first node whose role is
// "status" or starts with "heading" and whose name contains one of the
// given phrases (case-insensitive). Returns nil when absent; callers treat
// that as a fail verdict, not an error.
func FindVerdict(nodes []AccessibleNode, phrases []string) *AccessibleNode {
	lowered := lowerAll(phrases)
	for i := range nodes {
		role := nodes[i].Role
		if role != "status" && !strings.HasPrefix(role, "heading") {
			continue
		}
		name := strings.ToLower(nodes[i].Name)
		for _, p := range lowered {
			if strings.Contains(name, p) {
				return copyOf(nodes[i])
			}
		}
	}
	return nil
}

// SampleNodes renders up to max role:name pairs for diagnostics, so a
// target-not-found error can show what the snapshot actually contained.
func SampleNodes(nodes []AccessibleNode, max int) []string {
	if max > len(nodes) {
		max = len(nodes)
	}
	sample := make([]string, 0, max)
	for _, n := range nodes[:max] {
		sample = append(sample, fmt.Sprintf("%s:%s", n.Role, n.Name))
	}
	return sample
}

func isButton(role string) bool {
	return strings.Contains(strings.ToLower(role), "button")
}

// idAttributesContain checks id-like and test-id-like attribute values for
// the phrase. Other attribute keys are ignored.
func idAttributesContain(attrs map[string]string, phrase string) bool {
	for key, value := range attrs {
		lk := strings.ToLower(key)
		if !strings.Contains(lk, "id") && !strings.Contains(lk, "test") {
			continue
		}
		if strings.Contains(strings.ToLower(value), phrase) {
			return true
		}
	}
	return false
}

func lowerAll(phrases []string) []string {
	lowered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			lowered = append(lowered, p)
		}
	}
	return lowered
}

func copyOf(n AccessibleNode) *AccessibleNode {
	c := n
	return &c
}
