package game

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/trapcrawl/internal/core"
	"github.com/vovakirdan/trapcrawl/internal/sim"
)

// Layout rows above and below the map.
const (
	hudRows    = 2 // Title line and separator
	footerRows = 2 + maxLogLines
	hpBarWidth = 10
)

// Render draws the HUD, the map with traps under creatures, the HP bar,
// the message log and, once lost, the game over overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	m := g.world.Map()
	if dst.Width() < m.Width() || dst.Height() < m.Height()+hudRows+footerRows {
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", m.Width(), m.Height()+hudRows+footerRows))
		return
	}

	offX := (dst.Width() - m.Width()) / 2
	offY := hudRows

	for _, t := range g.world.Tiles() {
		dst.SetColored(offX+t.Pos.X, offY+t.Pos.Y, t.Glyph, core.ColorGray)
	}
	snap := g.world.Entities()
	draw := func(e sim.Entity) {
		dst.SetColored(offX+e.Pos.X, offY+e.Pos.Y, e.Glyph, e.Color)
	}
	for _, entry := range snap.Entries() {
		if entry.Entity.IsTrap() {
			draw(entry.Entity)
		}
	}
	for _, entry := range snap.Entries() {
		if entry.Entity.IsCreature() {
			draw(entry.Entity)
		}
	}

	footY := offY + m.Height()
	g.renderStatus(dst, offX, footY)
	for i, line := range g.log {
		dst.DrawText(offX, footY+2+i, line)
	}

	if g.world.State() == sim.StateLost {
		g.renderOverlay(dst, "You Lose!", "Press R to restart")
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" %s | Turn: %d  Kills: %d", g.Title(), g.world.Turn(), g.world.Kills())
	dst.DrawText(0, 0, hud)
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

// renderStatus draws the HP bar and the status tag.
func (g *Game) renderStatus(dst *core.Screen, x, y int) {
	v := g.world.PlayerVitals()

	dst.DrawText(x, y, "HP ")
	bar := HPBar(v.HP, v.MaxHP, hpBarWidth)
	color := core.ColorGreen
	if v.HP*3 <= v.MaxHP {
		color = core.ColorBrightRed
	}
	dst.DrawTextColored(x+3, y, bar, color)

	text := fmt.Sprintf(" %d/%d", v.HP, v.MaxHP)
	if v.Status != sim.StatusNone {
		text += "  " + strings.ToUpper(v.Status.String())
	}
	dst.DrawText(x+3+len([]rune(bar)), y, text)
}

// HPBar returns a fixed-width bar such as "[#####     ]".
func HPBar(hp, maxHP, width int) string {
	filled := 0
	if maxHP > 0 {
		filled = core.Clamp(hp*width/maxHP, 0, width)
	}
	if hp > 0 && filled == 0 {
		filled = 1
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", width-filled) + "]"
}

func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := core.Max(len(line1), len(line2)) + 4
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawBox(box)
	dst.DrawTextColored(box.X+(boxW-len(line1))/2, box.Y+1, line1, core.ColorBrightRed)
	dst.DrawText(box.X+(boxW-len(line2))/2, box.Y+3, line2)
}
