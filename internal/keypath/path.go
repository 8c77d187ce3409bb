package keypath

import (
	"slices"
	"strconv"
	"strings"
)

// String serializes the path into its canonical form.
func (p *Path) String() string {
	if p == nil {
		return ""
	}

	var sb strings.Builder
	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.Name)
		if seg.HasIndex() {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(seg.Index))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

// Equal checks for deep equality between two paths.
func (p *Path) Equal(other *Path) bool {
	if p == nil || other == nil {
		return p == other
	}
	return slices.Equal(p.Segments, other.Segments)
}

// prefix returns the first n segments as a new path, for error messages.
func (p *Path) prefix(n int) string {
	return (&Path{Segments: p.Segments[:n]}).String()
}
