package layout

import "github.com/matzehuels/layoutwriter/pkg/errors"

// Kind identifies an entity list of a [Layout].
type Kind int

// Entity kinds in emission order.
const (
	KindInst Kind = iota
	KindRect
	KindPathSeg
	KindVia
	KindPin
	KindPolygon
	KindBlockage
	KindBoundary
)

// Kinds lists every kind in the order the emission pipeline visits them.
var Kinds = []Kind{KindInst, KindRect, KindPathSeg, KindVia, KindPin, KindPolygon, KindBlockage, KindBoundary}

var kindNames = map[Kind]string{
	KindInst:     "inst",
	KindRect:     "rect",
	KindPathSeg:  "path_seg",
	KindVia:      "via",
	KindPin:      "pin",
	KindPolygon:  "polygon",
	KindBlockage: "blockage",
	KindBoundary: "boundary",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	for k, s := range kindNames {
		if s == name {
			return k, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown entity kind %q", name)
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
