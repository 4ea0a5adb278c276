// Package layout holds the in-memory description of a layout cell before
// it is written to a layout database.
//
// A [Layout] keeps one append-only list per entity kind: instances,
// rectangles, path segments, vias, pins, polygons, blockages and
// boundaries. Order is preserved within a kind but not across kinds; the
// emission pipeline always walks the kinds in [Kinds] order.
//
// Entities are added through the Add* methods, which validate their
// arguments and resolve orientation names immediately:
//
//	l := layout.New()
//	if err := l.AddRect("M1", "drawing", geom.Box{XL: 0, YB: 0, XR: 1, YT: 0.1}, geom.Array{NX: 3, SPX: 0.2}); err != nil {
//	    return err
//	}
//
// A Layout is not safe for concurrent use.
package layout
