package spatial

import (
	"math/rand"
	"testing"
)

// checkPlacement fails if r breaks any placement rule for the given inputs.
func checkPlacement(t *testing.T, p *Placer, r Rect, obstacles, avoid, placed []Rect, o PlaceOptions) {
	t.Helper()
	o = o.withDefaults()
	for _, ob := range obstacles {
		if r.Intersects(ob.Inflate(o.ObstaclePad, o.ObstaclePad)) {
			t.Errorf("%v overlaps padded obstacle %v", r, ob)
		}
	}
	for _, a := range avoid {
		if r.Intersects(a.Inflate(o.AvoidPad, o.AvoidPad)) {
			t.Errorf("%v overlaps padded exclusion zone %v", r, a)
		}
	}
	for _, pl := range placed {
		if r.Intersects(pl.Inflate(o.PlacedPad, o.PlacedPad)) {
			t.Errorf("%v overlaps earlier placement %v", r, pl)
		}
	}
	m := p.Margin + EdgeClearance
	if r.X < m || r.Y < m || r.Right() > p.Width-m || r.Bottom() > p.Height-m {
		t.Errorf("%v too close to the arena edge", r)
	}
}

func TestFindFreeRectAvoidsEverything(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := NewPlacer(800, 600, 20, rng)
	obstacles := []Rect{R(200, 200, 100, 100)}
	avoid := []Rect{R(40, 40, 60, 60)}
	var placed []Rect

	for i := 0; i < 20; i++ {
		r, ok := p.FindFreeRect(30, 30, obstacles, avoid, placed, PlaceOptions{})
		if !ok {
			t.Fatalf("placement %d failed", i)
		}
		checkPlacement(t, p, r, obstacles, avoid, placed, PlaceOptions{})
		placed = append(placed, r)
	}
}

func TestFindFreeRectRandomized(t *testing.T) {
	optionSets := []struct {
		name string
		opts PlaceOptions
	}{
		{"defaults", PlaceOptions{}},
		{"tight", PlaceOptions{ObstaclePad: 2, AvoidPad: 4, PlacedPad: 1, Attempts: 200}},
		{"wide", PlaceOptions{ObstaclePad: 60, AvoidPad: 90, PlacedPad: 40, Attempts: 300}},
	}

	for _, tt := range optionSets {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(1); seed <= 50; seed++ {
				rng := rand.New(rand.NewSource(seed))
				width := 400 + float64(rng.Intn(1200))
				height := 300 + float64(rng.Intn(700))
				margin := float64(rng.Intn(60))
				p := NewPlacer(width, height, margin, rand.New(rand.NewSource(seed*31)))

				var obstacles, avoid []Rect
				n := rng.Intn(8)
				for i := 0; i < n; i++ {
					obstacles = append(obstacles, R(rng.Float64()*width, rng.Float64()*height, 20+rng.Float64()*120, 20+rng.Float64()*120))
				}
				for i := 0; i < 2; i++ {
					avoid = append(avoid, R(rng.Float64()*width, rng.Float64()*height, 40+rng.Float64()*160, 40+rng.Float64()*160))
				}

				var placed []Rect
				for i := 0; i < 12; i++ {
					w := 4 + rng.Float64()*90
					h := 4 + rng.Float64()*90
					r, ok := p.FindFreeRect(w, h, obstacles, avoid, placed, tt.opts)
					if !ok {
						continue
					}
					if r.W != w || r.H != h {
						t.Errorf("seed %d: expected %vx%v, got %vx%v", seed, w, h, r.W, r.H)
					}
					checkPlacement(t, p, r, obstacles, avoid, placed, tt.opts)
					placed = append(placed, r)
				}

				for i := 0; i < 6; i++ {
					radius := 3 + rng.Float64()*30
					c, ok := p.FindFreePoint(radius, obstacles, avoid, placed, tt.opts)
					if !ok {
						continue
					}
					checkPlacement(t, p, RectAround(c, 2*radius, 2*radius), obstacles, avoid, placed, tt.opts)
				}
			}
		})
	}
}

func TestFindFreeRectTooLarge(t *testing.T) {
	p := NewPlacer(100, 100, 10, rand.New(rand.NewSource(1)))
	if _, ok := p.FindFreeRect(200, 20, nil, nil, nil, PlaceOptions{}); ok {
		t.Error("Expected failure for a rect wider than the arena")
	}
}

func TestFindFreeRectNoRoom(t *testing.T) {
	p := NewPlacer(200, 200, 10, rand.New(rand.NewSource(1)))
	wall := []Rect{R(0, 0, 200, 200)}
	if _, ok := p.FindFreeRect(10, 10, wall, nil, nil, PlaceOptions{Attempts: 50}); ok {
		t.Error("Expected failure when the whole arena is blocked")
	}
}

func TestFindFreePoint(t *testing.T) {
	p := NewPlacer(400, 400, 20, rand.New(rand.NewSource(3)))
	obstacles := []Rect{R(150, 150, 100, 100)}
	for i := 0; i < 10; i++ {
		c, ok := p.FindFreePoint(15, obstacles, nil, nil, PlaceOptions{})
		if !ok {
			t.Fatal("FindFreePoint failed")
		}
		checkPlacement(t, p, RectAround(c, 30, 30), obstacles, nil, nil, PlaceOptions{})
	}
}

func TestPlacementDeterministic(t *testing.T) {
	a := NewPlacer(800, 600, 20, rand.New(rand.NewSource(99)))
	b := NewPlacer(800, 600, 20, rand.New(rand.NewSource(99)))
	ra, _ := a.FindFreeRect(40, 40, nil, nil, nil, PlaceOptions{})
	rb, _ := b.FindFreeRect(40, 40, nil, nil, nil, PlaceOptions{})
	if ra != rb {
		t.Errorf("Expected same result for same seed, got %v and %v", ra, rb)
	}
}
