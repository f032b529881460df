package visualize

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds route params and the history stack to labels.
	Detailed bool
}

// ToDOT converts a navigation tree to Graphviz DOT source.
// A nil state yields an empty graph.
func ToDOT(state *nav.State, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph navigation {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [color=grey40];\n")
	buf.WriteString("\n")

	if state != nil {
		w := &writer{buf: &buf, opts: opts}
		w.navigator(state, "n", true)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type writer struct {
	buf  *bytes.Buffer
	opts Options
}

// navigator writes s and its subtree. id is a path-derived node name, which
// stays unique even when keys are missing from partial state.
func (w *writer) navigator(s *nav.State, id string, focused bool) {
	attrs := []string{
		fmt.Sprintf("label=%q", w.navigatorLabel(s)),
		"shape=ellipse",
	}
	style := []string{}
	if focused {
		style = append(style, "bold")
	}
	if s.Stale {
		style = append(style, "dashed")
	}
	if len(style) > 0 {
		attrs = append(attrs, fmt.Sprintf("style=%q", strings.Join(style, ",")))
	}
	fmt.Fprintf(w.buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))

	for i, r := range s.Routes {
		rid := id + "." + strconv.Itoa(i)
		active := focused && i == s.Index
		w.route(r, rid, active)
		fmt.Fprintf(w.buf, "  %q -> %q%s;\n", id, rid, edgeAttrs(active))
		if r.State != nil {
			w.navigator(r.State, rid+".n", active)
			fmt.Fprintf(w.buf, "  %q -> %q%s;\n", rid, rid+".n", edgeAttrs(active))
		}
	}
}

func (w *writer) route(r nav.Route, id string, focused bool) {
	attrs := []string{
		fmt.Sprintf("label=%q", w.routeLabel(r)),
		"shape=box",
	}
	if focused {
		attrs = append(attrs, "style=\"rounded,filled,bold\"", "fillcolor=lightskyblue")
	} else {
		attrs = append(attrs, "style=\"rounded\"")
	}
	fmt.Fprintf(w.buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
}

func (w *writer) navigatorLabel(s *nav.State) string {
	lines := []string{s.Type}
	if s.Key != "" {
		lines = append(lines, s.Key)
	}
	if s.DrawerOpen() {
		lines = append(lines, "drawer open")
	}
	if w.opts.Detailed && len(s.History) > 0 {
		entries := make([]string, len(s.History))
		for i, h := range s.History {
			if h.Type == nav.HistoryDrawer {
				entries[i] = "<drawer>"
			} else {
				entries[i] = h.Key
			}
		}
		lines = append(lines, "history: "+strings.Join(entries, " "))
	}
	return strings.Join(lines, "\n")
}

func (w *writer) routeLabel(r nav.Route) string {
	lines := []string{r.Name}
	if r.Key != "" {
		lines = append(lines, r.Key)
	}
	if w.opts.Detailed {
		for _, k := range slices.Sorted(maps.Keys(r.Params)) {
			lines = append(lines, fmt.Sprintf("%s: %v", k, r.Params[k]))
		}
	}
	return strings.Join(lines, "\n")
}

func edgeAttrs(focused bool) string {
	if focused {
		return " [penwidth=2, color=black]"
	}
	return ""
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales with its
// container instead of using Graphviz's point-based size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
