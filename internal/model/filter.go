package model

import "strings"

// FilterNodes narrows a node slice to entries matching both constraints:
// role equal to role (case-insensitive) when role is non-empty, and name
// or description containing text (case-insensitive) when text is
// non-empty. Empty constraints pass everything through.
func FilterNodes(nodes []AccessibleNode, role, text string) []AccessibleNode {
	if role == "" && text == "" {
		return nodes
	}
	role = strings.ToLower(role)
	text = strings.ToLower(text)

	var result []AccessibleNode
	for _, n := range nodes {
		if role != "" && strings.ToLower(n.Role) != role {
			continue
		}
		if text != "" && !nodeContains(n, text) {
			continue
		}
		result = append(result, n)
	}
	return result
}

func nodeContains(n AccessibleNode, needle string) bool {
	return strings.Contains(strings.ToLower(n.Name), needle) ||
		strings.Contains(strings.ToLower(n.Description), needle)
}
