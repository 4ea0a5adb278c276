// Package io reads and writes layout description files.
//
// A layout file lists the entities of one cell, grouped by kind, in user
// units. JSON and YAML share the same shape:
//
//	{
//	  "insts": [
//	    {"lib": "stdcells", "cell": "inv", "view": "layout", "name": "I0",
//	     "loc": {"x": 1, "y": 2}, "orient": "R90",
//	     "params": {"ints": {"nf": 2}}}
//	  ],
//	  "rects": [
//	    {"layer": "M1", "purpose": "drawing",
//	     "box": {"xl": 0, "yb": 0, "xr": 1, "yt": 0.5},
//	     "array": {"nx": 3, "ny": 2, "spx": 2, "spy": 1}}
//	  ],
//	  "path_segs": [...], "vias": [...], "pins": [...],
//	  "polygons": [...], "blockages": [...], "boundaries": [...]
//	}
//
// Every entity goes through the [layout.Layout] Add* constructors on import,
// so a file is rejected with the same error codes as the equivalent API
// call (INVALID_ORIENTATION, INVALID_INPUT). The error names the offending
// entity, e.g. "rects[2]: INVALID_INPUT: malformed box ...".
//
// An omitted "orient" means R0. An empty one is an invalid orientation.
//
// # Import
//
// Use [Import] to read a file by extension (.json, .yaml, .yml), or
// [ReadJSON] / [ReadYAML] for any io.Reader.
//
// # Export
//
// [Export], [WriteJSON] and [WriteYAML] write the same shape back. A written
// file re-imports to an identical layout.
//
// [layout.Layout]: github.com/matzehuels/layoutwriter/pkg/layout.Layout
package io
