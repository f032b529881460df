// Package visualize renders navigation trees as Graphviz diagrams.
//
// # Overview
//
// Every navigator becomes an ellipse labelled with its router type and key,
// and every route becomes a rounded box labelled with its name and key.
// Navigators point at their routes and a route points at the navigator its
// screen renders. The focused path is drawn in bold with a filled
// background so the active leaf can be read off at a glance. A navigator
// whose drawer is open carries a "drawer open" line.
//
// # Usage
//
//	dot := visualize.ToDOT(container.State(), visualize.Options{Detailed: true})
//	svg, err := visualize.RenderSVG(ctx, dot)
//
// Partial states work too: missing keys are simply left out of labels, and
// stale navigators are drawn dashed.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package visualize
