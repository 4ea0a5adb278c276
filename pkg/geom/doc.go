// Package geom encodes resolution-independent layout geometry for a
// grid-based layout database.
//
// Coordinates enter as float64 user units (typically microns) and leave as
// [Coord] database units. The package provides:
//
//   - Orientation coding: the eight canonical transforms and their codes 0–7
//     ([ParseOrient], [OrientName]).
//   - Unit conversion: [ToGrid] and [Units], which rounds half away from zero.
//   - Array expansion: [Expand] and [Units.GridOffsets] enumerate the copies
//     of a repeated figure in a fixed order.
//   - Via encoding: [EncodeEnclosure] and [Units.EncodeVia] turn per-layer
//     enclosure boxes into center plus half-extent parameters.
//   - Path encoding: [Units.EncodePathSeg] computes widths, diagonal
//     extensions and end caps for orthogonal and diagonal segments.
//
// Everything here is pure computation. Nothing in this package looks up
// technology data or talks to a backend.
//
// # Grid resolution
//
// [Units.GridRes] is carried alongside the scale factor but is never used to
// snap results. Values are rounded to the nearest database unit only.
package geom
