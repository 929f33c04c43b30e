package vault

import "strings"

// Separator between path components in the secret tree.
const Separator = "/"

// Path is a location in the secret tree: an ordered sequence of non-empty
// components. The zero value is the root. Paths are values — Pushed returns
// an extended copy and never mutates the receiver, so a caller holding the
// original can keep using it while the traversal extends copies.
type Path struct {
	components []string
}

// RootPath returns the root of the secret tree (zero components).
func RootPath() Path {
	return Path{}
}

// ParsePath splits a slash-separated string into a Path. Empty components
// (leading, trailing, or doubled slashes) are dropped, so "a//b/" parses
// the same as "a/b".
func ParsePath(s string) Path {
	var comps []string

	for _, c := range strings.Split(s, Separator) {
		if c != "" {
			comps = append(comps, c)
		}
	}

	return Path{components: comps}
}

// Pushed returns a new Path whose components are the receiver's followed by
// comp. The receiver is unchanged. The copy owns its backing array so later
// Pushed calls on either value cannot alias each other.
func (p Path) Pushed(comp string) Path {
	comps := make([]string, len(p.components)+1)
	copy(comps, p.components)
	comps[len(p.components)] = comp

	return Path{components: comps}
}

// Components returns a copy of the component sequence.
func (p Path) Components() []string {
	comps := make([]string, len(p.components))
	copy(comps, p.components)

	return comps
}

// IsRoot reports whether the path has zero components.
func (p Path) IsRoot() bool {
	return len(p.components) == 0
}

// Name returns the last component, or "" for the root.
func (p Path) Name() string {
	if len(p.components) == 0 {
		return ""
	}

	return p.components[len(p.components)-1]
}

// String joins the components with the separator. The root renders as "".
func (p Path) String() string {
	return strings.Join(p.components, Separator)
}
