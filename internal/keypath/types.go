package keypath

// Segment is a single component of a key path, e.g. `name[index]`.
type Segment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// NewSegment creates a segment without an index.
func NewSegment(name string) Segment {
	return Segment{Name: name, Index: -1}
}

// NewSegmentWithIndex creates a segment that selects one array element.
func NewSegmentWithIndex(name string, index int) Segment {
	return Segment{Name: name, Index: index}
}

func (s Segment) HasIndex() bool {
	return s.Index != -1
}

// Path is a parsed key path.
type Path struct {
	Segments []Segment
}
