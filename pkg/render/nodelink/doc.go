// Package nodelink renders trust graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// The DOT output can also be written as-is and rendered with the graphviz
// command-line tools.
//
// # Edge Labels
//
// Each edge shows the shared project when the backend supplied one, otherwise
// the shared company, otherwise the relationship type.
package nodelink
