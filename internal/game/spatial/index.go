package spatial

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// minExtent keeps degenerate rectangles valid for rtreego, which rejects
// zero-length sides.
const minExtent = 0.01

// indexedRect is a rectangle stored in the R-tree with its insertion order.
type indexedRect struct {
	rect  Rect
	order int
	bb    *rtreego.Rect
}

func (ir *indexedRect) Bounds() *rtreego.Rect { return ir.bb }

func toRTree(r Rect) *rtreego.Rect {
	w, h := r.W, r.H
	if w < minExtent {
		w = minExtent
	}
	if h < minExtent {
		h = minExtent
	}
	bb, err := rtreego.NewRect(rtreego.Point{r.X, r.Y}, []float64{w, h})
	if err != nil {
		// Only reachable for non-positive lengths, which are clamped above.
		panic(err)
	}
	return bb
}

// Index is an immutable R-tree over static obstacles. The tree is a broad
// phase; every candidate is confirmed with Rect.Intersects so edge contact
// follows the same strict rule as the rest of the simulation.
type Index struct {
	tree  *rtreego.Rtree
	rects []Rect
}

// NewIndex builds an index over rects. The slice order is preserved and
// reported by Query.
func NewIndex(rects []Rect) *Index {
	objs := make([]rtreego.Spatial, len(rects))
	for i, r := range rects {
		objs[i] = &indexedRect{rect: r, order: i, bb: toRTree(r)}
	}
	return &Index{
		tree:  rtreego.NewTree(2, 4, 16, objs...),
		rects: append([]Rect(nil), rects...),
	}
}

// Len returns the number of indexed rectangles.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.rects)
}

// Rects returns a copy of the indexed rectangles in insertion order.
func (ix *Index) Rects() []Rect {
	if ix == nil {
		return nil
	}
	return append([]Rect(nil), ix.rects...)
}

// Query returns the insertion indices of rectangles intersecting r, ascending.
func (ix *Index) Query(r Rect) []int {
	if ix == nil || len(ix.rects) == 0 {
		return nil
	}
	// Pad the probe so edge-touching candidates reach the exact test.
	hits := ix.tree.SearchIntersect(toRTree(r.Pad(minExtent)))
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		ir := h.(*indexedRect)
		if ir.rect.Intersects(r) {
			out = append(out, ir.order)
		}
	}
	sort.Ints(out)
	return out
}

// Overlaps reports whether r intersects any indexed rectangle.
func (ix *Index) Overlaps(r Rect) bool {
	return len(ix.Query(r)) > 0
}

// Blockers is the combined blocking set for one tick: the static map index
// followed by the live hazard blockers (barrels, pits). Order matters for
// First, which grenade bounce uses.
type Blockers struct {
	static  *Index
	dynamic []Rect
}

// NewBlockers combines a static index with dynamic rectangles.
func NewBlockers(static *Index, dynamic []Rect) *Blockers {
	return &Blockers{static: static, dynamic: dynamic}
}

// Overlaps reports whether r intersects any blocker.
func (b *Blockers) Overlaps(r Rect) bool {
	if b == nil {
		return false
	}
	if b.static.Overlaps(r) {
		return true
	}
	return OverlapsAny(r, b.dynamic)
}

// First returns the first blocker intersecting r: static obstacles in
// insertion order, then dynamic ones.
func (b *Blockers) First(r Rect) (Rect, bool) {
	if b == nil {
		return Rect{}, false
	}
	if hits := b.static.Query(r); len(hits) > 0 {
		return b.static.rects[hits[0]], true
	}
	for _, o := range b.dynamic {
		if r.Intersects(o) {
			return o, true
		}
	}
	return Rect{}, false
}

// All returns every blocker rectangle, static first.
func (b *Blockers) All() []Rect {
	if b == nil {
		return nil
	}
	out := b.static.Rects()
	return append(out, b.dynamic...)
}

// Any reports whether hit accepts a blocker among those intersecting the
// broad-phase box r. It lets shaped probes such as line tracers reuse the
// index.
func (b *Blockers) Any(r Rect, hit func(Rect) bool) bool {
	if b == nil {
		return false
	}
	for _, i := range b.static.Query(r) {
		if hit(b.static.rects[i]) {
			return true
		}
	}
	for _, o := range b.dynamic {
		if r.Intersects(o) && hit(o) {
			return true
		}
	}
	return false
}
