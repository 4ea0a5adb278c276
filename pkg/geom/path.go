package geom

import "math"

// EndStyle is the cap applied at one end of a path segment.
type EndStyle uint8

// End cap styles.
const (
	// Truncate cuts the segment flush at the endpoint.
	Truncate EndStyle = iota
	// Extend extends the segment by half its width past the endpoint.
	Extend
	// Round approximates a round cap with an octagonal custom cap.
	Round
)

var endStyleNames = [...]string{"truncate", "extend", "round"}

// ParseEndStyle maps a style tag to an EndStyle. Unknown tags, including the
// empty string, fall back to Truncate.
func ParseEndStyle(s string) EndStyle {
	switch s {
	case "extend":
		return Extend
	case "round":
		return Round
	default:
		return Truncate
	}
}

// String returns the style tag.
func (s EndStyle) String() string {
	if int(s) < len(endStyleNames) {
		return endStyleNames[s]
	}
	return "truncate"
}

// MarshalText encodes the style by tag.
func (s EndStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a style tag, falling back to Truncate.
func (s *EndStyle) UnmarshalText(text []byte) error {
	*s = ParseEndStyle(string(text))
	return nil
}

// EndCap is an encoded end style. For Round caps the four custom offsets are
// set; for Extend only Ext is set; Truncate carries no offsets.
type EndCap struct {
	Style        EndStyle `json:"style" msgpack:"style"`
	Ext          Coord    `json:"ext,omitempty" msgpack:"ext,omitempty"`
	LeftDiagExt  Coord    `json:"left_diag_ext,omitempty" msgpack:"left_diag_ext,omitempty"`
	RightDiagExt Coord    `json:"right_diag_ext,omitempty" msgpack:"right_diag_ext,omitempty"`
	HalfWidth    Coord    `json:"half_width,omitempty" msgpack:"half_width,omitempty"`
}

// PathStyle is the encoded geometry of a single path segment.
type PathStyle struct {
	Start    Vector `json:"start" msgpack:"start"`
	Stop     Vector `json:"stop" msgpack:"stop"`
	Width    Coord  `json:"width" msgpack:"width"`
	DiagExt  Coord  `json:"diag_ext" msgpack:"diag_ext"`
	Diagonal bool   `json:"diagonal,omitempty" msgpack:"diagonal,omitempty"`
	Begin    EndCap `json:"begin" msgpack:"begin"`
	End      EndCap `json:"end" msgpack:"end"`
}

// EncodePathSeg encodes a segment from p0 to p1 with the given nominal width
// and begin/end style tags.
//
// A segment whose grid endpoints differ in both x and y is diagonal; its
// width is measured in the diagonal metric. Widths are always even so the
// half width is exact.
func (u Units) EncodePathSeg(p0, p1 Point, width float64, begin, end string) PathStyle {
	s := PathStyle{Start: u.Point(p0), Stop: u.Point(p1)}
	halfDiag := width * math.Sqrt2 / 2
	if s.Start.X != s.Stop.X && s.Start.Y != s.Stop.Y {
		s.Diagonal = true
		s.Width = u.ToGrid(halfDiag) * 2
		s.DiagExt = u.ToGrid(width / 2)
	} else {
		s.Width = u.ToGrid(width/2) * 2
		s.DiagExt = u.ToGrid(halfDiag)
	}
	s.Begin = s.cap(ParseEndStyle(begin))
	s.End = s.cap(ParseEndStyle(end))
	return s
}

func (s PathStyle) cap(style EndStyle) EndCap {
	half := s.Width / 2
	switch style {
	case Extend:
		return EndCap{Style: Extend, Ext: half}
	case Round:
		return EndCap{
			Style:        Round,
			Ext:          half,
			LeftDiagExt:  s.DiagExt,
			RightDiagExt: s.DiagExt,
			HalfWidth:    half,
		}
	default:
		return EndCap{Style: Truncate}
	}
}
