// Package plist decodes property-list documents into the generic
// map[string]any tree that pbx.Load consumes.
package plist

import (
	"errors"
	"fmt"

	"howett.net/plist"
)

// Format is the encoding a document was decoded from.
type Format int

const (
	FormatInvalid  = Format(plist.InvalidFormat)
	FormatOpenStep = Format(plist.OpenStepFormat)
	FormatGNUStep  = Format(plist.GNUStepFormat)
	FormatXML      = Format(plist.XMLFormat)
	FormatBinary   = Format(plist.BinaryFormat)
)

func (f Format) String() string {
	switch f {
	case FormatOpenStep:
		return "openstep"
	case FormatGNUStep:
		return "gnustep"
	case FormatXML:
		return "xml"
	case FormatBinary:
		return "binary"
	default:
		return "invalid"
	}
}

// ErrNotDictionary is returned when the top-level value is not a
// dictionary.
var ErrNotDictionary = errors.New("property list root is not a dictionary")

// Decode parses data in any supported encoding and returns its top-level
// dictionary together with the detected format.
func Decode(data []byte) (map[string]any, Format, error) {
	var root any
	format, err := plist.Unmarshal(data, &root)
	if err != nil {
		return nil, FormatInvalid, fmt.Errorf("decoding property list: %w", err)
	}
	doc, ok := root.(map[string]any)
	if !ok {
		return nil, Format(format), fmt.Errorf("%w: got %T", ErrNotDictionary, root)
	}
	return doc, Format(format), nil
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
