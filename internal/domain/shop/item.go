package shop

import "strings"

// ItemDescriptor is the structural identity of a tradeable good: kind plus
// display metadata, never quantity. Two stacks of different sizes holding
// the same descriptor are the same good.
type ItemDescriptor struct {
	Kind        string         `yaml:"kind" json:"kind"`
	DisplayName string         `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	Lore        []string       `yaml:"lore,omitempty" json:"lore,omitempty"`
	Enchants    map[string]int `yaml:"enchants,omitempty" json:"enchants,omitempty"`
}

func (d ItemDescriptor) IsZero() bool {
	return d.Kind == ""
}

// Matches reports whether two descriptors denote the same tradeable good.
// All structural fields must match exactly; a zero descriptor matches nothing.
func (d ItemDescriptor) Matches(other ItemDescriptor) bool {
	if d.IsZero() || other.IsZero() {
		return false
	}
	if d.Kind != other.Kind || d.DisplayName != other.DisplayName {
		return false
	}
	if len(d.Lore) != len(other.Lore) {
		return false
	}
	for i := range d.Lore {
		if d.Lore[i] != other.Lore[i] {
			return false
		}
	}
	if len(d.Enchants) != len(other.Enchants) {
		return false
	}
	for k, v := range d.Enchants {
		if ov, ok := other.Enchants[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Matches reports whether a and b denote the same tradeable good.
func Matches(a, b ItemDescriptor) bool {
	return a.Matches(b)
}

func (d ItemDescriptor) Clone() ItemDescriptor {
	clone := d
	if d.Lore != nil {
		clone.Lore = append([]string(nil), d.Lore...)
	}
	if d.Enchants != nil {
		clone.Enchants = make(map[string]int, len(d.Enchants))
		for k, v := range d.Enchants {
			clone.Enchants[k] = v
		}
	}
	return clone
}

// String returns a user-facing name: the custom display name when present,
// otherwise the kind with underscores spaced out.
func (d ItemDescriptor) String() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return strings.ToLower(strings.ReplaceAll(d.Kind, "_", " "))
}
