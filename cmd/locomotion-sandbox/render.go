package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/npc-locomotion/capability"
	"github.com/lixenwraith/npc-locomotion/parameter"
	"github.com/lixenwraith/npc-locomotion/terrain"
)

// Screen layout: title row, room, HUD
const (
	roomTop    = 1
	roomLeft   = 1
	playerRune = '@'
)

var terrainColors = [terrain.KindCount]tcell.Color{
	terrain.Normal:       tcell.ColorDimGray,
	terrain.Rough:        tcell.ColorTan,
	terrain.Water:        tcell.ColorDodgerBlue,
	terrain.Mud:          tcell.ColorSaddleBrown,
	terrain.Ice:          tcell.ColorLightCyan,
	terrain.Lava:         tcell.ColorOrangeRed,
	terrain.Toxic:        tcell.ColorLimeGreen,
	terrain.Steep:        tcell.ColorSilver,
	terrain.Narrow:       tcell.ColorSlateGray,
	terrain.Destructible: tcell.ColorPeru,
}

var moverColors = []tcell.Color{
	tcell.ColorGreen,
	tcell.ColorFuchsia,
	tcell.ColorAqua,
	tcell.ColorYellow,
	tcell.ColorMediumPurple,
	tcell.ColorGold,
	tcell.ColorLightSlateGray,
}

// terrainStyle returns the cell style for a terrain tile
func terrainStyle(k terrain.Kind) tcell.Style {
	if k >= terrain.KindCount {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(terrainColors[k])
}

// moverRune is the archetype's initial, upper-cased
func moverRune(name string) rune {
	for _, r := range name {
		return unicode.ToUpper(r)
	}
	return '?'
}

// render draws room, movers, player and HUD, then shows the frame
func render(screen tcell.Screen, w *World) {
	screen.Clear()
	sw, sh := screen.Size()
	grid := w.Grid()
	tile := grid.TileSize()

	drawText(screen, sw, sh, roomLeft, 0, " NPC LOCOMOTION SANDBOX  arrows move @  q quits ", tcell.StyleDefault.Bold(true))

	// Terrain, blank Normal tiles above the floor keep the room readable
	floorRow := grid.Height() - 1
	for ty := 0; ty < grid.Height(); ty++ {
		for tx := 0; tx < grid.Width(); tx++ {
			k := grid.At(tx, ty)
			r := terrain.Glyph(k)
			if k == terrain.Normal && ty != floorRow {
				r = ' '
			}
			setCell(screen, sw, sh, roomLeft+tx, roomTop+ty, r, terrainStyle(k))
		}
	}

	cell := func(x, y float64) (int, int) {
		return roomLeft + int(x/tile), roomTop + int(y/tile)
	}

	for i, m := range w.Movers() {
		style := tcell.StyleDefault.Foreground(moverColors[i%len(moverColors)]).Bold(true)
		if m.HitTicks > 0 {
			style = style.Reverse(true)
		}
		cx, cy := cell(m.X, m.Y)
		setCell(screen, sw, sh, cx, cy, moverRune(m.Name), style)
	}

	px, py := cell(w.PlayerX, w.PlayerY)
	setCell(screen, sw, sh, px, py, playerRune, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))

	hudY := roomTop + grid.Height() + 1
	for i, line := range hudLines(w) {
		drawText(screen, sw, sh, roomLeft, hudY+i, line, tcell.StyleDefault)
	}

	screen.Show()
}

// hudLines summarizes mover state below the room
func hudLines(w *World) []string {
	lines := make([]string, 0, parameter.SandboxStatusLines+parameter.SandboxEventLines)
	lines = append(lines, fmt.Sprintf("tick %d  player (%.0f, %.0f)", w.Tick, w.PlayerX, w.PlayerY))

	var parts []string
	for _, m := range w.Movers() {
		res := m.Last
		flag := ""
		switch {
		case res.Stuck:
			flag = " stuck"
		case res.Blocked:
			flag = " blocked"
		}
		parts = append(parts, fmt.Sprintf("%c:%s %s%s x%.2f c%.2f%s", moverRune(m.Name), res.State, res.Terrain, hazardMark(w, m), res.SpeedMultiplier, w.TraversalCost(m), flag))
	}

	// Two movers per line keeps the HUD within an 80 column terminal
	for i := 0; i < len(parts); i += 2 {
		lines = append(lines, strings.Join(parts[i:min(i+2, len(parts))], "  |  "))
	}
	lines = append(lines, w.Recent()...)
	return lines
}

// hazardMark flags terrain whose damage or status reaches the mover
func hazardMark(w *World, m *Mover) string {
	a, ok := w.coord.Archetype(m.ID)
	if !ok {
		return ""
	}
	e := w.coord.Effect(m.Last.Terrain)
	if e.Hazardous() && capability.CanEnter(a.Capabilities, e) && capability.MitigationFactor(a.Capabilities, e) < 1 {
		return "!"
	}
	return ""
}

func setCell(screen tcell.Screen, sw, sh, x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= sw || y >= sh {
		return
	}
	screen.SetContent(x, y, r, nil, style)
}

// drawText writes a single line, clipped to the screen
func drawText(screen tcell.Screen, sw, sh, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		setCell(screen, sw, sh, x+i, y, r, style)
	}
}
