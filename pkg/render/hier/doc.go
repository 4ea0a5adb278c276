// Package hier renders the instance hierarchy of a layout as a node-link
// diagram.
//
// The top cell is drawn as the root node. Every distinct instance master
// becomes a child node, and the edge from the root carries the number of
// placements (array instances count every copy).
//
// # Usage
//
//	dot := hier.ToDOT(l, "top", hier.Options{Detailed: true})
//	svg, err := hier.RenderSVG(dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools. [RenderSVG] uses [github.com/goccy/go-graphviz] in-process.
package hier
