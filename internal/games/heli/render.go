package heli

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-heli/internal/core"
	"github.com/vovakirdan/tui-heli/internal/levels"
)

// Visual characters for rendering
const (
	ObstacleChar  = '█'
	CapTopChar    = '▀'
	CapBottomChar = '▄'
	GroundChar    = '▔'
	BarFullChar   = '━'
	BarEmptyChar  = '─'
	GoalChar      = '⚑'
	LifeFullChar  = '♥'
	LifeEmptyChar = '♡'
	StarChar      = '★'
)

var weatherRunes = map[levels.Weather]rune{
	levels.WeatherWindy: '~',
	levels.WeatherRain:  '╱',
	levels.WeatherSnow:  '*',
}

var weatherColors = map[levels.Weather]core.Color{
	levels.WeatherWindy: core.ColorGreen,
	levels.WeatherRain:  core.ColorBlue,
	levels.WeatherSnow:  core.ColorBrightWhite,
}

// projection maps viewport coordinates onto the world rows of a screen.
// Row 0 is the HUD and the last row is the progress bar.
type projection struct {
	sx, sy float64
	top    int // First world row
	rows   int // Number of world rows
}

func newProjection(dst *core.Screen, vpW, vpH float64) projection {
	rows := max(dst.Height()-2, 1)
	return projection{
		sx:   float64(dst.Width()) / vpW,
		sy:   float64(rows) / vpH,
		top:  1,
		rows: rows,
	}
}

func (p projection) col(x float64) int {
	return int(math.Floor(x * p.sx))
}

func (p projection) row(y float64) int {
	return p.top + int(math.Floor(y*p.sy))
}

func (p projection) bottom() int {
	return p.top + p.rows
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if dst.Width() < 10 || dst.Height() < 6 {
		dst.DrawText(0, 0, "too small")
		return
	}

	s := g.session
	vp := g.deps.Config.Viewport
	proj := newProjection(dst, vp.Width, vp.Height)
	snap := s.Run().Snapshot()

	g.drawWeather(dst, proj, s.Weather())
	g.drawGoal(dst, proj, snap)
	for _, p := range snap.Pairs {
		g.drawPair(dst, proj, p, snap.Progress)
	}
	dst.DrawHLine(0, proj.bottom()-1, dst.Width(), GroundChar, core.ColorGray)
	g.drawVehicle(dst, proj, snap, s.Elapsed())

	g.drawHUD(dst, snap, s)
	g.drawProgressBar(dst, snap)

	switch {
	case g.paused:
		g.drawMessage(dst, "PAUSED", "Press P to resume")
	case snap.Phase == PhaseIdle:
		g.drawMessage(dst, s.Level().Name, "Hold SPACE to fly")
	case s.Overlay() == OverlayDead:
		hint := "R restart  |  B menu"
		if s.CanRevive() {
			hint = "V revive  |  " + hint
		}
		g.drawMessage(dst, "CRASHED", fmt.Sprintf("Score: %d  |  %s", snap.Score, hint))
	case s.Overlay() == OverlayComplete:
		stars := strings.Repeat(string(StarChar), snap.Stars) + strings.Repeat("☆", 3-snap.Stars)
		hint := "R replay  |  B menu"
		if _, ok := s.NextLaunch(); ok {
			hint = "Enter next level  |  " + hint
		}
		g.drawMessage(dst, "LEVEL COMPLETE  "+stars, fmt.Sprintf("Score: %d  |  %s", snap.Score, hint))
	}
}

func (g *Game) drawPair(dst *core.Screen, proj projection, p ObstaclePair, progress float64) {
	x0 := proj.col(p.Left() - progress)
	x1 := proj.col(p.Right() - progress)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if x1 < 0 || x0 >= dst.Width() {
		return
	}

	color := core.ColorGreen
	if !p.Active {
		color = core.ColorGray
	}

	gapTop := proj.row(p.Gap.Top())
	gapBottom := proj.row(p.Gap.Bottom())
	if gapBottom <= gapTop {
		gapBottom = gapTop + 1
	}

	dst.DrawRect(core.NewRect(x0, proj.top, x1-x0, gapTop-proj.top), ObstacleChar, color)
	dst.DrawRect(core.NewRect(x0, gapBottom, x1-x0, proj.bottom()-gapBottom), ObstacleChar, color)
	if gapTop > proj.top {
		dst.DrawHLine(x0, gapTop-1, x1-x0, CapTopChar, core.ColorBrightGreen)
	}
	if gapBottom < proj.bottom() {
		dst.DrawHLine(x0, gapBottom, x1-x0, CapBottomChar, core.ColorBrightGreen)
	}
}

func (g *Game) drawGoal(dst *core.Screen, proj projection, snap Snapshot) {
	x := proj.col(snap.Goal - snap.Progress + g.deps.Config.Vehicle.X)
	if x < 0 || x >= dst.Width() {
		return
	}
	dst.DrawVLine(x, proj.top, proj.rows, '┊', core.ColorYellow)
	dst.SetColored(x, proj.top, GoalChar, core.ColorBrightYellow)
}

func (g *Game) drawVehicle(dst *core.Screen, proj projection, snap Snapshot, elapsed float64) {
	// Blink while invincible
	if snap.Invincible && int(elapsed*10)%2 == 1 {
		return
	}

	v := g.deps.Config.Vehicle
	x := proj.col(v.X - v.Width/2)
	y := proj.row(snap.Y)

	color := core.ColorBrightYellow
	switch snap.Phase {
	case PhaseDead:
		color = core.ColorRed
	case PhaseHitRecoil:
		color = core.ColorOrange
	}

	rotor := "‾‾╋‾‾"
	if int(elapsed*12)%2 == 1 {
		rotor = "═══╬═"
	}
	dst.DrawTextColored(x, y-1, rotor, core.ColorGray)
	body := "◄█▀▀▶"
	if snap.Thrust {
		body = "◄█▀▀▷"
	}
	dst.DrawTextColored(x, y, body, color)
}

func (g *Game) drawWeather(dst *core.Screen, proj projection, w *Weather) {
	r, ok := weatherRunes[w.Kind()]
	if !ok {
		return
	}
	color := weatherColors[w.Kind()]
	for _, p := range w.Particles() {
		y := proj.row(p.Y)
		if y < proj.top || y >= proj.bottom() {
			continue
		}
		dst.SetColored(proj.col(p.X), y, r, color)
	}
}

func (g *Game) drawHUD(dst *core.Screen, snap Snapshot, s *Session) {
	lives := strings.Repeat(string(LifeFullChar), snap.Lives) +
		strings.Repeat(string(LifeEmptyChar), max(snap.MaxLives-snap.Lives, 0))

	left := fmt.Sprintf(" %s ", s.Level().Name)
	dst.DrawTextColored(0, 0, left, core.ColorBrightCyan)
	dst.DrawTextColored(len([]rune(left)), 0, lives, core.ColorRed)

	right := fmt.Sprintf("Score: %d  Best: %d ", snap.Score, max(s.Best(), snap.Score))
	dst.DrawTextColored(dst.Width()-len([]rune(right)), 0, right, core.ColorBrightWhite)
}

func (g *Game) drawProgressBar(dst *core.Screen, snap Snapshot) {
	y := dst.Height() - 1
	label := fmt.Sprintf(" %3.0f%%", snap.Percent)
	width := dst.Width() - len(label) - 1
	if width <= 0 {
		return
	}
	filled := int(float64(width) * snap.Percent / 100)
	dst.DrawHLine(0, y, filled, BarFullChar, core.ColorBrightGreen)
	dst.DrawHLine(filled, y, width-filled, BarEmptyChar, core.ColorGray)
	dst.DrawTextColored(width, y, label, core.ColorWhite)
}

// drawMessage displays a centered message box.
func (g *Game) drawMessage(dst *core.Screen, title, subtitle string) {
	width := max(len([]rune(title)), len([]rune(subtitle))) + 4
	x := (dst.Width() - width) / 2
	y := dst.Height()/2 - 2

	dst.DrawRect(core.NewRect(x, y, width, 4), ' ', core.ColorDefault)
	dst.DrawBox(core.NewRect(x, y, width, 4), core.ColorWhite)
	dst.DrawTextCentered(y+1, title, core.ColorBrightYellow)
	dst.DrawTextCentered(y+2, subtitle, core.ColorWhite)
}
