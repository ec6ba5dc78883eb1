package spatial

import "math/rand"

// Placement defaults shared by the spawners.
const (
	EdgeInset          = 10 // candidate inset from the arena margin
	EdgeClearance      = 6  // minimum gap to the arena edge
	DefaultObstaclePad = 10
	DefaultAvoidPad    = 20
	DefaultPlacedPad   = 14
	DefaultAttempts    = 800
)

// PlaceOptions tunes a free-position search. Pads are total growth, split
// evenly between opposite sides. Zero values fall back to the defaults above.
type PlaceOptions struct {
	Attempts    int
	ObstaclePad float64 // inflation applied to obstacles
	AvoidPad    float64 // inflation applied to exclusion zones
	PlacedPad   float64 // inflation applied to rects placed earlier by the same spawner
}

func (o PlaceOptions) withDefaults() PlaceOptions {
	if o.Attempts <= 0 {
		o.Attempts = DefaultAttempts
	}
	if o.ObstaclePad == 0 {
		o.ObstaclePad = DefaultObstaclePad
	}
	if o.AvoidPad == 0 {
		o.AvoidPad = DefaultAvoidPad
	}
	if o.PlacedPad == 0 {
		o.PlacedPad = DefaultPlacedPad
	}
	return o
}

// Placer searches for free rectangles and points inside a margin-bounded
// arena. It never fails loudly: a miss is reported as ok == false and the
// caller skips that spawn.
type Placer struct {
	Width, Height float64
	Margin        float64
	rng           *rand.Rand
}

// NewPlacer creates a placer with its own RNG.
func NewPlacer(width, height, margin float64, rng *rand.Rand) *Placer {
	return &Placer{Width: width, Height: height, Margin: margin, rng: rng}
}

// Arena returns the margin-bounded play area.
func (p *Placer) Arena() Rect {
	return Rect{X: p.Margin, Y: p.Margin, W: p.Width - 2*p.Margin, H: p.Height - 2*p.Margin}
}

// uniform returns a value in [lo, hi]; ok is false for an empty range.
func (p *Placer) uniform(lo, hi float64) (float64, bool) {
	if hi < lo {
		return 0, false
	}
	return lo + p.rng.Float64()*(hi-lo), true
}

func (p *Placer) clearOfEdges(r Rect) bool {
	m := p.Margin + EdgeClearance
	return r.X >= m && r.Y >= m &&
		r.Right() <= p.Width-m && r.Bottom() <= p.Height-m
}

func (p *Placer) free(r Rect, obstacles, avoid, placed []Rect, o PlaceOptions) bool {
	if !p.clearOfEdges(r) {
		return false
	}
	for _, ob := range obstacles {
		if r.Intersects(ob.Inflate(o.ObstaclePad, o.ObstaclePad)) {
			return false
		}
	}
	for _, a := range avoid {
		if r.Intersects(a.Inflate(o.AvoidPad, o.AvoidPad)) {
			return false
		}
	}
	for _, pl := range placed {
		if r.Intersects(pl.Inflate(o.PlacedPad, o.PlacedPad)) {
			return false
		}
	}
	return true
}

// FindFreeRect returns a w×h rectangle that stays clear of the arena edge,
// obstacles, exclusion zones and earlier placements, each inflated by the
// configured pads.
func (p *Placer) FindFreeRect(w, h float64, obstacles, avoid, placed []Rect, opts PlaceOptions) (Rect, bool) {
	o := opts.withDefaults()
	lo := p.Margin + EdgeInset
	for i := 0; i < o.Attempts; i++ {
		x, okX := p.uniform(lo, p.Width-p.Margin-EdgeInset-w)
		y, okY := p.uniform(lo, p.Height-p.Margin-EdgeInset-h)
		if !okX || !okY {
			return Rect{}, false
		}
		r := Rect{X: x, Y: y, W: w, H: h}
		if p.free(r, obstacles, avoid, placed, o) {
			return r, true
		}
	}
	return Rect{}, false
}

// FindFreePoint returns the centre of a free circle of the given radius.
// The circle is tested through its bounding square.
func (p *Placer) FindFreePoint(radius float64, obstacles, avoid, placed []Rect, opts PlaceOptions) (Vec2, bool) {
	o := opts.withDefaults()
	inset := p.Margin + radius + EdgeInset
	for i := 0; i < o.Attempts; i++ {
		x, okX := p.uniform(inset, p.Width-inset)
		y, okY := p.uniform(inset, p.Height-inset)
		if !okX || !okY {
			return Vec2{}, false
		}
		c := Vec2{x, y}
		if p.free(RectAround(c, 2*radius, 2*radius), obstacles, avoid, placed, o) {
			return c, true
		}
	}
	return Vec2{}, false
}
