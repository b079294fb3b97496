// Package plot renders the page's visualization panels as SVG scenes and
// serves them with their interaction endpoints. Every interaction or
// resize produces a full destructive re-render from current state; no
// visual element survives a rebuild.
package plot

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Scene accumulates SVG elements for one panel render.
type Scene struct {
	width  float64
	height float64
	defs   strings.Builder
	body   strings.Builder
}

// NewScene starts an empty scene of the given pixel size.
func NewScene(width, height float64) *Scene {
	return &Scene{width: width, height: height}
}

func fmtNum(v float64) string {
	// Round to centipixels so float drift never leaks into the markup.
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// attrString renders extra attributes in deterministic key order.
func attrString(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, ` %s="%s"`, k, attrs[k])
	}
	return sb.String()
}

// Rect appends a rectangle.
func (s *Scene) Rect(x, y, w, h float64, attrs map[string]string) {
	fmt.Fprintf(&s.body, `<rect x="%s" y="%s" width="%s" height="%s"%s/>`,
		fmtNum(x), fmtNum(y), fmtNum(w), fmtNum(h), attrString(attrs))
}

// Line appends a straight line.
func (s *Scene) Line(x1, y1, x2, y2 float64, attrs map[string]string) {
	fmt.Fprintf(&s.body, `<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`,
		fmtNum(x1), fmtNum(y1), fmtNum(x2), fmtNum(y2), attrString(attrs))
}

// Circle appends a circle.
func (s *Scene) Circle(cx, cy, r float64, attrs map[string]string) {
	fmt.Fprintf(&s.body, `<circle cx="%s" cy="%s" r="%s"%s/>`,
		fmtNum(cx), fmtNum(cy), fmtNum(r), attrString(attrs))
}

// Path appends a path with the given data string.
func (s *Scene) Path(d string, attrs map[string]string) {
	fmt.Fprintf(&s.body, `<path d="%s"%s/>`, d, attrString(attrs))
}

// Text appends a text label. The content is XML-escaped.
func (s *Scene) Text(x, y float64, content string, attrs map[string]string) {
	fmt.Fprintf(&s.body, `<text x="%s" y="%s"%s>%s</text>`,
		fmtNum(x), fmtNum(y), attrString(attrs), escape(content))
}

// OpenGroup starts a <g> element; callers must close it.
func (s *Scene) OpenGroup(attrs map[string]string) {
	fmt.Fprintf(&s.body, `<g%s>`, attrString(attrs))
}

// CloseGroup ends the most recent group.
func (s *Scene) CloseGroup() {
	s.body.WriteString("</g>")
}

// ClipRect registers a rectangular clip path and returns its reference id.
// The reveal mask is just this rectangle's width.
func (s *Scene) ClipRect(id string, x, y, w, h float64) string {
	fmt.Fprintf(&s.defs, `<clipPath id="%s"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath>`,
		id, fmtNum(x), fmtNum(y), fmtNum(w), fmtNum(h))
	return fmt.Sprintf("url(#%s)", id)
}

// SVG serializes the scene.
func (s *Scene) SVG() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		fmtNum(s.width), fmtNum(s.height), fmtNum(s.width), fmtNum(s.height))

	if s.defs.Len() > 0 {
		sb.WriteString("<defs>")
		sb.WriteString(s.defs.String())
		sb.WriteString("</defs>")
	}

	sb.WriteString(s.body.String())
	sb.WriteString("</svg>")
	return sb.String()
}

func escape(v string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(v)
}

// PathBuilder assembles a polyline path data string.
type PathBuilder struct {
	sb strings.Builder
}

// MoveTo starts a new subpath.
func (p *PathBuilder) MoveTo(x, y float64) {
	fmt.Fprintf(&p.sb, "M%s,%s", fmtNum(x), fmtNum(y))
}

// LineTo extends the current subpath.
func (p *PathBuilder) LineTo(x, y float64) {
	fmt.Fprintf(&p.sb, "L%s,%s", fmtNum(x), fmtNum(y))
}

// Arc appends an elliptical arc segment.
func (p *PathBuilder) Arc(rx, ry, rotation float64, largeArc, sweep bool, x, y float64) {
	large, swp := 0, 0
	if largeArc {
		large = 1
	}
	if sweep {
		swp = 1
	}
	fmt.Fprintf(&p.sb, "A%s,%s %s %d %d %s,%s",
		fmtNum(rx), fmtNum(ry), fmtNum(rotation), large, swp, fmtNum(x), fmtNum(y))
}

// Close closes the current subpath.
func (p *PathBuilder) Close() {
	p.sb.WriteString("Z")
}

// String returns the path data.
func (p *PathBuilder) String() string {
	return p.sb.String()
}
