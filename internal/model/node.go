package model

// AccessibleNode is one element of a flattened accessibility snapshot.
type AccessibleNode struct {
	Role        string            `yaml:"role"                  json:"role"`                  // Lower-cased semantic role
	Name        string            `yaml:"name"                  json:"name"`                  // Accessible name / label
	Ref         string            `yaml:"ref,omitempty"         json:"ref,omitempty"`         // Opaque handle for action calls
	Attributes  map[string]string `yaml:"attributes,omitempty"  json:"attributes,omitempty"`  // id, data-testid, ...
	Description string            `yaml:"description,omitempty" json:"description,omitempty"` // Supplementary text
}
