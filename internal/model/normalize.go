package model

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
)

// Snapshot payloads arrive in whatever shape the remote browser server
// happens to emit for its version: a pre-flattened node array, a nested
// tree, a paged wrapper, or JSON re-encoded inside text content blocks.
// Field names drift between versions too, so every lookup goes through an
// alias list.
var (
	roleAliases = []string{"role", "r", "type", "tag", "ax_role"}
	nameAliases = []string{"name", "label", "title", "text", "accessible_name", "aria-label"}
	refAliases  = []string{"ref", "id", "handle", "nodeId", "backendNodeId", "elementId"}
	attrAliases = []string{"attributes", "attrs", "properties", "props"}
	descAliases = []string{"description", "desc", "value", "placeholder"}

	rootKeys  = []string{"root", "tree", "snapshot", "document"}
	childKeys = []string{"children", "childNodes", "kids"}
	pageKeys  = []string{"pages", "tabs"}
	textKeys  = []string{"text", "raw", "data"}
)

// Normalize converts a raw snapshot payload into a flat node list.
// It never fails: unrecognized or malformed input yields an empty list,
// which callers treat as "retry the snapshot", not as an error.
//
// Resolution order, first source that yields nodes wins:
//  1. the payload is itself an array of node-like entries
//  2. the payload is a tree with a children-like aggregate (pre-order walk)
//  3. the payload wraps a collection of pages (first page that resolves)
//  4. the payload carries a text field encoding JSON of the above
//  5. the payload carries multiple content blocks (each treated as 4)
//  6. the legacy flat "nodes" field
func Normalize(payload any) []AccessibleNode {
	switch p := payload.(type) {
	case nil:
		return nil
	case string:
		return nodesFromText(p)
	case []any:
		return nodesFromList(p)
	case map[string]any:
		if nodes := nodesFromTree(p); len(nodes) > 0 {
			return nodes
		}
		if nodes := nodesFromPages(p); len(nodes) > 0 {
			return nodes
		}
		for _, key := range textKeys {
			if s, ok := p[key].(string); ok {
				if nodes := nodesFromText(s); len(nodes) > 0 {
					return nodes
				}
			}
		}
		if nodes := nodesFromBlocks(p); len(nodes) > 0 {
			return nodes
		}
		if raw, ok := p["nodes"].([]any); ok {
			return nodesFromList(raw)
		}
	}
	return nil
}

// nodesFromList maps a pre-flattened array. Entries that are not objects,
// or that expose no role/name-like field at all, are skipped.
func nodesFromList(items []any) []AccessibleNode {
	var nodes []AccessibleNode
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok || !isNodeLike(entry) {
			continue
		}
		nodes = append(nodes, normalizeEntry(entry))
	}
	return nodes
}

// nodesFromTree resolves a tree-shaped object: either the object itself
// carries a children-like aggregate, or a conventional root key holds the
// tree (or a forest). Emits one node per visited object in pre-order.
func nodesFromTree(obj map[string]any) []AccessibleNode {
	for _, key := range childKeys {
		if _, ok := obj[key]; ok {
			var nodes []AccessibleNode
			walkTree(obj, &nodes)
			return nodes
		}
	}
	for _, key := range rootKeys {
		switch root := obj[key].(type) {
		case map[string]any:
			var nodes []AccessibleNode
			walkTree(root, &nodes)
			return nodes
		case []any:
			var nodes []AccessibleNode
			for _, item := range root {
				if child, ok := item.(map[string]any); ok {
					walkTree(child, &nodes)
				}
			}
			return nodes
		}
	}
	return nil
}

// walkTree emits node, then recurses into its children in order. Child
// entries that are not objects are skipped without recursing; a missing or
// non-array children field makes node a leaf.
func walkTree(node map[string]any, out *[]AccessibleNode) {
	*out = append(*out, normalizeEntry(node))
	for _, key := range childKeys {
		if _, ok := node[key]; !ok {
			continue
		}
		kids, ok := node[key].([]any)
		if !ok {
			return
		}
		for _, kid := range kids {
			if child, ok := kid.(map[string]any); ok {
				walkTree(child, out)
			}
		}
		return
	}
}

// nodesFromPages scans a paged wrapper and returns the first page that
// resolves to a non-empty node list. Pages are never merged.
func nodesFromPages(obj map[string]any) []AccessibleNode {
	for _, key := range pageKeys {
		pages, ok := obj[key].([]any)
		if !ok {
			continue
		}
		for _, page := range pages {
			if nodes := nodesFromStructured(page); len(nodes) > 0 {
				return nodes
			}
		}
	}
	return nil
}

// nodesFromText parses a JSON-looking text blob and resolves the result.
// Anything that does not parse, or parses to nothing recognizable, yields
// an empty list; parse errors are never propagated.
func nodesFromText(text string) []AccessibleNode {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil
	}
	var parsed any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return nil
	}
	return nodesFromStructured(parsed)
}

// nodesFromStructured applies the array, tree and legacy-field rules to an
// already-parsed value. Used for page entries and decoded text blobs.
func nodesFromStructured(v any) []AccessibleNode {
	switch t := v.(type) {
	case []any:
		return nodesFromList(t)
	case map[string]any:
		if nodes := nodesFromTree(t); len(nodes) > 0 {
			return nodes
		}
		if nodes := nodesFromPages(t); len(nodes) > 0 {
			return nodes
		}
		if raw, ok := t["nodes"].([]any); ok {
			return nodesFromList(raw)
		}
	}
	return nil
}

// nodesFromBlocks handles a result carrying multiple content blocks: each
// block's text is resolved independently and the non-empty results are
// concatenated in block order.
func nodesFromBlocks(obj map[string]any) []AccessibleNode {
	blocks, ok := obj["content"].([]any)
	if !ok {
		return nil
	}
	var nodes []AccessibleNode
	for _, block := range blocks {
		entry, ok := block.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range textKeys {
			if s, ok := entry[key].(string); ok {
				nodes = append(nodes, nodesFromText(s)...)
				break
			}
		}
	}
	return nodes
}

// isNodeLike reports whether a raw entry exposes any role or name field,
// under any alias. Used to reject junk entries in pre-flattened arrays.
func isNodeLike(entry map[string]any) bool {
	for _, key := range roleAliases {
		if _, ok := entry[key]; ok {
			return true
		}
	}
	for _, key := range nameAliases {
		if _, ok := entry[key]; ok {
			return true
		}
	}
	return false
}

// normalizeEntry applies the field-normalization rule to one raw entry.
// Role and name are never absent afterwards (empty string at worst), so
// matching code needs no nil guards. Role is stored lower-cased; name
// keeps its original case and is lowered at match time.
func normalizeEntry(raw map[string]any) AccessibleNode {
	return AccessibleNode{
		Role:        strings.ToLower(scalarField(raw, roleAliases)),
		Name:        scalarField(raw, nameAliases),
		Ref:         scalarField(raw, refAliases),
		Attributes:  attributeField(raw),
		Description: scalarField(raw, descAliases),
	}
}

// scalarField returns the first scalar value found under the given aliases,
// coerced to a string. Object and array values never match.
func scalarField(raw map[string]any, aliases []string) string {
	for _, key := range aliases {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		if s := cast.ToString(v); s != "" {
			return s
		}
	}
	return ""
}

// attributeField returns the first property bag found under the attribute
// aliases, with scalar values coerced to strings. Nested values are dropped.
func attributeField(raw map[string]any) map[string]string {
	for _, key := range attrAliases {
		bag, ok := raw[key].(map[string]any)
		if !ok {
			continue
		}
		attrs := make(map[string]string, len(bag))
		for k, v := range bag {
			if v == nil {
				continue
			}
			switch v.(type) {
			case map[string]any, []any:
				continue
			}
			attrs[k] = cast.ToString(v)
		}
		return attrs
	}
	return nil
}
