package types

// Term is the projected view of a dictionary entry: only the fields
// validation needs. The code section and any other stored fields are
// dropped by the projection and never consulted downstream.
//
// The three roles are independent and may coexist on one term:
// a descriptor carries a data section, a structure definition carries a
// rule section, and an enumeration element carries a non-empty path.
type Term struct {
	// Key is the globally unique identifier of the term
	Key string `json:"key"`
	// Data is the data section declaring the shape of values, keyed by
	// the configured field tags
	Data map[string]interface{} `json:"data,omitempty"`
	// Rule is the rule section declaring cross-field constraints
	Rule map[string]interface{} `json:"rule,omitempty"`
	// Path lists the enumeration type term keys this term belongs to
	Path []string `json:"path,omitempty"`
}

// IsDescriptor reports whether the term declares a value shape.
func (t *Term) IsDescriptor() bool {
	return t != nil && t.Data != nil
}

// IsStructure reports whether the term is a structure definition.
func (t *Term) IsStructure() bool {
	return t != nil && t.Rule != nil
}

// IsEnumeration reports whether the term is an enumeration element.
func (t *Term) IsEnumeration() bool {
	return t != nil && len(t.Path) > 0
}

// PathContains reports whether the term belongs to the enumeration type
// identified by key.
func (t *Term) PathContains(key string) bool {
	if t == nil {
		return false
	}
	for _, p := range t.Path {
		if p == key {
			return true
		}
	}
	return false
}
