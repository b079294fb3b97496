package plot

import (
	"fmt"
	"math"
	"time"

	"github.com/raykavin/hindsight/pkg/anim"
	"github.com/raykavin/hindsight/pkg/core"
	"github.com/raykavin/hindsight/pkg/logger"
	"github.com/raykavin/hindsight/pkg/scale"
	"github.com/samber/lo"
)

const (
	rootKey = "Market"

	// labelAreaThreshold is the minimum rendered area for a legible label.
	labelAreaThreshold = 1800.0
	minLabelSize       = 9.0
	maxLabelSize       = 22.0

	// metricExtent fixes the symmetric width of the diverging color domain
	// so node colors are comparable across zoom levels.
	metricExtent = 30.0
)

// LeafRecord is one instrument in the market map.
type LeafRecord struct {
	Symbol        string
	Sector        string
	Industry      string
	Value         float64
	ReturnPct     float64
	VolatilityPct float64
	MarketCap     float64
}

// TreeNode lives in the hierarchy arena. Children are ordered indices and
// the parent is a weak back-reference by index; the root's parent is -1.
type TreeNode struct {
	Key      string
	Parent   int
	Children []int
	Depth    int
	Value    float64
	Metric   float64
	Leaf     *LeafRecord
}

// Tree is the three-level sector/industry/instrument arena.
type Tree struct {
	Nodes []TreeNode
	index map[string]int
}

// BuildTree groups leaves by sector then industry under a single root.
// Every aggregate's metric is the mean of its descendant leaves' returns.
func BuildTree(records []LeafRecord) (*Tree, error) {
	if len(records) == 0 {
		return nil, core.ErrEmptyHierarchy
	}

	t := &Tree{index: map[string]int{}}
	root := t.addNode(rootKey, -1, nil)

	for _, r := range records {
		r := r
		sector := t.child(root, r.Sector)
		industry := t.child(sector, r.Sector+"/"+r.Industry)
		leaf := t.addNode(r.Symbol, industry, &r)
		t.Nodes[industry].Children = append(t.Nodes[industry].Children, leaf)
	}

	t.aggregate(root)
	return t, nil
}

func (t *Tree) addNode(key string, parent int, leaf *LeafRecord) int {
	depth := 0
	if parent >= 0 {
		depth = t.Nodes[parent].Depth + 1
	}

	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, TreeNode{
		Key:    key,
		Parent: parent,
		Depth:  depth,
		Leaf:   leaf,
	})
	t.index[key] = idx
	return idx
}

// child finds or creates an aggregate child by key.
func (t *Tree) child(parent int, key string) int {
	if idx, ok := t.index[key]; ok {
		return idx
	}

	idx := t.addNode(key, parent, nil)
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	return idx
}

// aggregate fills each node's subtree value and mean leaf metric.
func (t *Tree) aggregate(idx int) (sum float64, metricTotal float64, leaves int) {
	node := &t.Nodes[idx]

	if node.Leaf != nil {
		node.Value = node.Leaf.Value
		node.Metric = node.Leaf.ReturnPct
		return node.Value, node.Metric, 1
	}

	for _, c := range node.Children {
		s, m, n := t.aggregate(c)
		sum += s
		metricTotal += m
		leaves += n
	}

	node.Value = sum
	if leaves > 0 {
		node.Metric = metricTotal / float64(leaves)
	}
	return sum, metricTotal, leaves
}

// Find returns the arena index for a key, or -1.
func (t *Tree) Find(key string) int {
	if idx, ok := t.index[key]; ok {
		return idx
	}
	return -1
}

// Rect is a laid-out rectangle in pixel space.
type Rect struct {
	X, Y, W, H float64
}

// Area returns the rectangle's area, zero when collapsed.
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Contains reports a hit, always false for zero-area rectangles.
func (r Rect) Contains(x, y float64) bool {
	if r.Area() == 0 {
		return false
	}
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Tile is one rendered node of the current layout.
type Tile struct {
	Node      int
	Key       string
	Depth     int
	Leaf      bool
	Rect      Rect
	Color     string
	FontSize  float64
	ShowLabel bool
}

// Navigator lays out the tree with slice-and-dice tiling and drives
// click-to-zoom drill navigation over a focus path.
type Navigator struct {
	log       logger.Logger
	cfg       core.RenderConfig
	view      core.ViewportGeometry
	tree      *Tree
	benchmark float64
	colors    scale.Diverging

	focus []int
	drill *anim.Tween

	// OnLeafOpen fires when a leaf is clicked; the collaborator decides
	// what an external reference open means.
	OnLeafOpen func(key string)
}

// NewNavigator builds the market map over the given leaves. A nil tree
// (empty dataset) is allowed and renders an empty container.
func NewNavigator(log logger.Logger, cfg core.RenderConfig, view core.ViewportGeometry,
	records []LeafRecord, benchmark float64) *Navigator {

	nav := &Navigator{
		log:       log,
		cfg:       cfg,
		view:      view,
		benchmark: benchmark,
		colors:    scale.NewDiverging(metricExtent),
	}

	tree, err := BuildTree(records)
	if err != nil {
		log.WithError(err).Debug("marketmap: empty dataset")
		return nav
	}

	nav.tree = tree
	nav.focus = []int{0}
	return nav
}

// Rebuild replaces the viewport, discarding any in-flight drill tween.
// The focus path survives so the rebuild is idempotent.
func (n *Navigator) Rebuild(view core.ViewportGeometry) {
	n.view = view
	n.drill = nil
}

// FocusPath returns the breadcrumb keys, root first.
func (n *Navigator) FocusPath() []string {
	if n.tree == nil {
		return nil
	}
	return lo.Map(n.focus, func(idx int, _ int) string {
		return n.tree.Nodes[idx].Key
	})
}

// Focused returns the arena index currently filling the viewport.
func (n *Navigator) Focused() int {
	if n.tree == nil || len(n.focus) == 0 {
		return -1
	}
	return n.focus[len(n.focus)-1]
}

// ZoomInto pushes a non-leaf node onto the focus path and restarts the
// drill transition. Clicking a leaf is a terminal action instead.
func (n *Navigator) ZoomInto(key string) error {
	if n.tree == nil {
		return core.ErrEmptyHierarchy
	}

	idx := n.tree.Find(key)
	if idx < 0 {
		return fmt.Errorf("%w: %s", core.ErrUnknownNode, key)
	}

	if n.tree.Nodes[idx].Leaf != nil {
		if n.OnLeafOpen != nil {
			n.OnLeafOpen(key)
		}
		return nil
	}

	if idx == n.Focused() {
		return nil
	}

	n.focus = append(n.focus, idx)
	n.startDrill()
	return nil
}

// JumpTo pops the focus path back to breadcrumb position i.
func (n *Navigator) JumpTo(i int) error {
	if n.tree == nil {
		return core.ErrEmptyHierarchy
	}
	if i < 0 || i >= len(n.focus) {
		return fmt.Errorf("%w: breadcrumb %d", core.ErrUnknownNode, i)
	}

	if i == len(n.focus)-1 {
		return nil
	}

	n.focus = n.focus[:i+1]
	n.startDrill()
	return nil
}

// ResetFocus pops to the root unconditionally.
func (n *Navigator) ResetFocus() {
	if n.tree == nil {
		return
	}
	if len(n.focus) > 1 {
		n.focus = n.focus[:1]
		n.startDrill()
	}
}

// RestoreFocus reapplies a saved breadcrumb trail without animating.
// Unknown or leaf keys truncate the path at the last valid aggregate.
func (n *Navigator) RestoreFocus(keys []string) {
	if n.tree == nil {
		return
	}

	n.focus = []int{0}
	for _, key := range keys {
		idx := n.tree.Find(key)
		if idx <= 0 || n.tree.Nodes[idx].Leaf != nil {
			continue
		}
		if n.tree.Nodes[idx].Parent == n.Focused() || idx == 0 {
			n.focus = append(n.focus, idx)
		}
	}
}

func (n *Navigator) startDrill() {
	n.drill = anim.NewTween(0, 1, n.cfg.Now(), n.cfg.Motion(n.cfg.DrillDuration))
}

// Layout tiles the focused subtree across the full inner viewport using
// recursive binary slice-and-dice: each child's length along the split
// axis is proportional to its subtree value, and the split axis
// alternates with depth. The layout is a pure function of tree, focus
// and viewport, so zooming in and resetting reproduces the root layout
// exactly.
func (n *Navigator) Layout() []Tile {
	if n.tree == nil || n.view.Zero() {
		return nil
	}

	innerW, innerH := n.view.Inner()
	focused := n.Focused()
	area := Rect{
		X: n.view.Margins.Left,
		Y: n.view.Margins.Top,
		W: innerW,
		H: innerH,
	}

	var tiles []Tile
	n.layoutNode(focused, area, &tiles)
	return tiles
}

func (n *Navigator) layoutNode(idx int, rect Rect, tiles *[]Tile) {
	node := n.tree.Nodes[idx]

	*tiles = append(*tiles, n.tile(idx, rect))

	if node.Leaf != nil || len(node.Children) == 0 || node.Value <= 0 {
		return
	}

	horizontal := node.Depth%2 == 0
	offset := 0.0
	for _, c := range node.Children {
		share := n.tree.Nodes[c].Value / node.Value

		var childRect Rect
		if horizontal {
			childRect = Rect{X: rect.X + offset, Y: rect.Y, W: rect.W * share, H: rect.H}
			offset += rect.W * share
		} else {
			childRect = Rect{X: rect.X, Y: rect.Y + offset, W: rect.W, H: rect.H * share}
			offset += rect.H * share
		}

		n.layoutNode(c, childRect, tiles)
	}
}

func (n *Navigator) tile(idx int, rect Rect) Tile {
	node := n.tree.Nodes[idx]

	area := rect.Area()
	fontSize := math.Sqrt(area) * 0.18
	fontSize = math.Max(minLabelSize, math.Min(maxLabelSize, fontSize))

	return Tile{
		Node:      idx,
		Key:       node.Key,
		Depth:     node.Depth,
		Leaf:      node.Leaf != nil,
		Rect:      rect,
		Color:     n.colors.At(node.Metric - n.benchmark).Hex(),
		FontSize:  fontSize,
		ShowLabel: area >= labelAreaThreshold,
	}
}

// HitTest returns the key of the deepest tile under the pointer, skipping
// collapsed rectangles. The boolean is false on a miss.
func (n *Navigator) HitTest(x, y float64) (string, bool) {
	tiles := n.Layout()
	for i := len(tiles) - 1; i >= 0; i-- {
		if tiles[i].Rect.Contains(x, y) {
			return tiles[i].Key, true
		}
	}
	return "", false
}

// Render produces the scene for the current focus. An empty dataset
// renders an empty container.
func (n *Navigator) Render(now time.Time) *Scene {
	if n.view.Zero() {
		n.log.Debug("marketmap: skipping draw, zero viewport")
		return nil
	}

	s := NewScene(n.view.Width, n.view.Height)
	if n.tree == nil {
		return s
	}

	opacity := 1.0
	if n.drill != nil {
		opacity = n.drill.At(now)
		if n.drill.Done(now) {
			n.drill = nil
		}
	}

	s.OpenGroup(map[string]string{"opacity": fmtNum(opacity)})
	for _, tile := range n.Layout() {
		if tile.Rect.Area() == 0 {
			// Collapsed after a resize: keep it, draw nothing visible.
			s.Rect(tile.Rect.X, tile.Rect.Y, 0, 0, nil)
			continue
		}

		s.Rect(tile.Rect.X, tile.Rect.Y, tile.Rect.W, tile.Rect.H, map[string]string{
			"fill":         tile.Color,
			"stroke":       "#ffffff",
			"stroke-width": "1",
		})

		if tile.ShowLabel {
			s.Text(tile.Rect.X+4, tile.Rect.Y+tile.FontSize+2, tile.Key, map[string]string{
				"font-size": fmtNum(tile.FontSize),
				"fill":      "#1a1a1a",
			})
		}
	}
	s.CloseGroup()

	return s
}
