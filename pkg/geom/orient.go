package geom

import (
	"strconv"

	"github.com/matzehuels/layoutwriter/pkg/errors"
)

// Orient is one of the eight canonical placement transforms.
type Orient uint8

// Orientation codes. The numbering is fixed and shared with the backend.
const (
	R0 Orient = iota
	MX
	MY
	R180
	R90
	MXR90
	MYR90
	R270
)

var orientNames = [...]string{"R0", "MX", "MY", "R180", "R90", "MXR90", "MYR90", "R270"}

// ParseOrient returns the code for an orientation name.
// Matching is exact and case-sensitive; anything else fails with
// INVALID_ORIENTATION.
func ParseOrient(name string) (Orient, error) {
	for i, n := range orientNames {
		if n == name {
			return Orient(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidOrientation, "invalid orientation: %q", name)
}

// OrientName returns the orientation name for a numeric code.
// Codes outside [0,7] fail with INVALID_ORIENTATION.
func OrientName(code int) (string, error) {
	if code < 0 || code >= len(orientNames) {
		return "", errors.New(errors.ErrCodeInvalidOrientation, "invalid orientation code: %d", code)
	}
	return orientNames[code], nil
}

// Valid reports whether o is one of the eight known codes.
func (o Orient) Valid() bool {
	return int(o) < len(orientNames)
}

// String returns the orientation name, or "Orient(n)" for unknown codes.
func (o Orient) String() string {
	if name, err := OrientName(int(o)); err == nil {
		return name
	}
	return "Orient(" + strconv.Itoa(int(o)) + ")"
}

// MarshalText encodes the orientation by name.
func (o Orient) MarshalText() ([]byte, error) {
	name, err := OrientName(int(o))
	if err != nil {
		return nil, err
	}
	return []byte(name), nil
}

// UnmarshalText decodes an orientation name.
func (o *Orient) UnmarshalText(text []byte) error {
	v, err := ParseOrient(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
