package render

import (
	"image"
	"image/color"
	"io"
	"math/rand"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"golang.org/x/image/font/basicfont"

	"arena-duel/internal/config"
	"arena-duel/internal/game"
	"arena-duel/internal/game/spatial"
)

const (
	gridSize  = 64.0
	starCount = 40
	starSeed  = 42
)

var (
	colorBackground = color.RGBA{15, 15, 25, 255}
	colorGrid       = color.RGBA{50, 50, 70, 255}
	colorStar       = color.RGBA{150, 150, 200, 255}
	colorDivider    = color.RGBA{90, 90, 105, 255}
)

// SplitScreen renders a round as two side-by-side views, each following
// one player, with the HUD on top. It reuses its contexts between frames
// and is not safe for concurrent use.
type SplitScreen struct {
	width  int
	height int
	viewW  int

	frame *gg.Context
	views [2]*gg.Context
	stars []spatial.Vec2
}

// NewSplitScreen allocates the frame and both view contexts.
func NewSplitScreen(cfg config.RenderConfig) *SplitScreen {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg = config.DefaultRender()
	}
	viewW := cfg.Width / 2

	s := &SplitScreen{
		width:  cfg.Width,
		height: cfg.Height,
		viewW:  viewW,
		frame:  gg.NewContext(cfg.Width, cfg.Height),
		views: [2]*gg.Context{
			gg.NewContext(viewW, cfg.Height),
			gg.NewContext(viewW, cfg.Height),
		},
	}

	// Fixed star field in view space, the same for every frame.
	rng := rand.New(rand.NewSource(starSeed))
	for i := 0; i < starCount; i++ {
		s.stars = append(s.stars, spatial.V(float64(rng.Intn(viewW+1)), float64(rng.Intn(cfg.Height+1))))
	}

	s.frame.SetFontFace(basicfont.Face7x13)
	return s
}

// Size returns the frame dimensions.
func (s *SplitScreen) Size() (int, int) {
	return s.width, s.height
}

// Render draws r into the frame and returns it. The image is overwritten
// by the next call; copy it with CloneFrame to keep it.
func (s *SplitScreen) Render(r *game.Round) image.Image {
	for i, p := range r.Players {
		s.renderView(s.views[i], r, p)
	}

	dc := s.frame
	dc.SetColor(nrgba(colorBackground))
	dc.Clear()
	dc.DrawImage(s.views[0].Image(), 0, 0)
	dc.DrawImage(s.views[1].Image(), s.viewW, 0)

	dc.SetColor(nrgba(colorDivider))
	dc.SetLineWidth(2)
	dc.DrawLine(float64(s.viewW), 0, float64(s.viewW), float64(s.height))
	dc.Stroke()

	drawHUD(dc, r, float64(s.viewW), float64(s.width), float64(s.height))
	return dc.Image()
}

func (s *SplitScreen) renderView(dc *gg.Context, r *game.Round, focus *game.Player) {
	cam := NewCamera(focus.Center(), float64(s.viewW), float64(s.height), r.Arena.Width, r.Arena.Height)
	surf := NewSurface(dc)

	dc.SetColor(nrgba(colorBackground))
	dc.Clear()
	s.drawGrid(surf, cam)
	for _, st := range s.stars {
		surf.FillCircle(st, 1, colorStar)
	}

	r.Draw(surf, cam)
	r.DrawOverlays(surf, cam.Bounds(), cam.Point(focus.Center()))
}

// drawGrid scrolls a fixed grid with the camera.
func (s *SplitScreen) drawGrid(surf *Surface, cam Camera) {
	startX := -mod(cam.Offset.X, gridSize)
	startY := -mod(cam.Offset.Y, gridSize)
	for x := startX; x < cam.ViewW; x += gridSize {
		surf.Line(spatial.V(x, 0), spatial.V(x, cam.ViewH), colorGrid, 1)
	}
	for y := startY; y < cam.ViewH; y += gridSize {
		surf.Line(spatial.V(0, y), spatial.V(cam.ViewW, y), colorGrid, 1)
	}
}

func mod(v, m float64) float64 {
	r := v - m*float64(int(v/m))
	if r < 0 {
		r += m
	}
	return r
}

// EncodePNG writes the last rendered frame as PNG.
func (s *SplitScreen) EncodePNG(w io.Writer) error {
	return errors.Wrap(s.frame.EncodePNG(w), "encode frame")
}

// SavePNG writes the last rendered frame to path.
func (s *SplitScreen) SavePNG(path string) error {
	return errors.Wrapf(s.frame.SavePNG(path), "save frame %s", path)
}

// CloneFrame copies img into a new RGBA image.
func CloneFrame(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	if src, ok := img.(*image.RGBA); ok {
		copy(out.Pix, src.Pix)
		return out
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}
