package keypath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// segmentRegex matches a single segment, e.g. `name` or `name[1]`.
var segmentRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(?:\[(\d+)\])?$`)

// Parse parses the canonical string form of a key path.
func Parse(raw string) (*Path, error) {
	if raw == "" {
		return nil, fmt.Errorf("key path cannot be empty")
	}

	p := &Path{}
	for _, part := range strings.Split(raw, ".") {
		if part == "" {
			return nil, fmt.Errorf("key path %q contains an empty segment", raw)
		}

		matches := segmentRegex.FindStringSubmatch(part)
		if matches == nil {
			return nil, fmt.Errorf("invalid key path segment: %q", part)
		}
		if matches[1] == "-" {
			return nil, fmt.Errorf("invalid segment name: %q", matches[1])
		}

		seg := NewSegment(matches[1])
		if matches[2] != "" {
			index, err := strconv.Atoi(matches[2])
			if err != nil {
				return nil, fmt.Errorf("segment %q: index out of range: %w", part, err)
			}
			seg.Index = index
		}
		p.Segments = append(p.Segments, seg)
	}

	return p, nil
}
