package render

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"arena-duel/internal/game"
)

const (
	hpBarX      = 20.0
	hpBarY      = 26.0
	hpBarW      = 240.0
	hpBarH      = 18.0
	hpBarRadius = 8.0
	weaponLineY = 60.0
	bannerScale = 3.0
)

var (
	colorHPTrack = color.RGBA{60, 60, 70, 255}
	colorUIText  = color.RGBA{235, 235, 245, 255}
	colorBanner  = color.RGBA{0, 0, 0, 170}
	colorWinText = color.RGBA{245, 245, 255, 255}
)

// drawHUD draws both players' health and weapon lines plus the winner
// banner once the round is over.
func drawHUD(dc *gg.Context, r *game.Round, viewW, width, height float64) {
	p1, p2 := r.Players[0], r.Players[1]

	drawHPBar(dc, hpBarX, hpBarY, p1)
	drawHPBar(dc, viewW+hpBarX, hpBarY, p2)

	dc.SetColor(nrgba(colorUIText))
	dc.DrawStringAnchored(weaponLine(p1), hpBarX, weaponLineY, 0, 1)
	dc.DrawStringAnchored(weaponLine(p2), width-hpBarX, weaponLineY, 1, 1)

	if r.Winner != nil {
		drawBanner(dc, r.Winner.Name+" WINS!", width, height)
	}
}

func drawHPBar(dc *gg.Context, x, y float64, p *game.Player) {
	dc.SetColor(nrgba(colorHPTrack))
	dc.DrawRoundedRectangle(x, y, hpBarW, hpBarH, hpBarRadius)
	dc.Fill()

	hp := p.HP
	if hp < 0 {
		hp = 0
	}
	if fill := hpBarW * float64(hp) / float64(p.MaxHP); fill > 0 {
		dc.SetColor(nrgba(p.Color))
		dc.DrawRoundedRectangle(x, y, fill, hpBarH, hpBarRadius)
		dc.Fill()
	}

	dc.SetColor(nrgba(colorUIText))
	dc.DrawStringAnchored(fmt.Sprintf("%s HP: %d", p.Name, p.HP), x, y-6, 0, 0)
}

// weaponLine is the weapon, ammo, reload and grenade readout.
func weaponLine(p *game.Player) string {
	w := p.Weapon()
	s := fmt.Sprintf("%s %s  %d/%d", p.Name, w.Name, w.Mag, w.Reserve)
	if w.Reloading() {
		s += fmt.Sprintf("  (Reloading %d%%)", int(w.ReloadProgress()*100))
	}
	return s + fmt.Sprintf("  Grenade:%d", p.Grenades)
}

func drawBanner(dc *gg.Context, msg string, width, height float64) {
	cx, cy := width/2, height/2-60

	tw, th := dc.MeasureString(msg)
	tw *= bannerScale
	th *= bannerScale
	dc.SetColor(nrgba(colorBanner))
	dc.DrawRoundedRectangle(cx-tw/2-24, cy-th/2-16, tw+48, th+32, 12)
	dc.Fill()

	dc.Push()
	dc.Translate(cx, cy)
	dc.Scale(bannerScale, bannerScale)
	dc.SetColor(nrgba(colorWinText))
	dc.DrawStringAnchored(msg, 0, 0, 0.5, 0.5)
	dc.Pop()
}
