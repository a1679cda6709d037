package flappy

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Visual characters for rendering
const (
	PipeChar      = '█'
	PipeCapTop    = '▄'
	PipeCapBottom = '▀'
	GroundChar    = '▒'
	GroundEdge    = '═'
	GroundMark    = '╤'
)

// viewport maps world coordinates (y up) onto screen cells (y down).
type viewport struct {
	cols, rows     float64
	worldW, worldH float64
}

func newViewport(cfg config.FlappyConfig, dst *core.Screen) viewport {
	return viewport{
		cols:   float64(dst.Width()),
		rows:   float64(dst.Height()),
		worldW: cfg.World.Width,
		worldH: cfg.World.Height,
	}
}

func (v viewport) x(x float64) float64 {
	return x * v.cols / v.worldW
}

func (v viewport) y(y float64) float64 {
	return (v.worldH - y) * v.rows / v.worldH
}

func (v viewport) col(x float64) int {
	return int(math.Floor(v.x(x)))
}

func (v viewport) row(y float64) int {
	return int(math.Floor(v.y(y)))
}

// rect converts a world-space box to the cells it covers.
func (v viewport) rect(left, bottom, right, top float64) core.Rect {
	return core.RectFromEdges(
		v.col(left),
		v.row(top),
		int(math.Ceil(v.x(right))),
		int(math.Ceil(v.y(bottom))),
	)
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	if g.flashOn {
		dst.SetBackground(core.ColorRed)
	} else {
		dst.SetBackground(core.ColorSky)
	}
	dst.Clear()

	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}

	v := newViewport(g.cfg, dst)

	for _, p := range g.pipes.Pairs() {
		g.drawPair(dst, v, p)
	}
	g.drawGround(dst, v)
	g.drawActor(dst, v)
	g.drawScore(dst)

	if g.phase == PhaseAwaitingRestart {
		drawCenteredMessage(dst, "GAME OVER",
			fmt.Sprintf("Score: %d  |  Press SPACE to restart", g.score))
	}
}

// drawPair renders both segments of an obstacle pair.
func (g *Game) drawPair(dst *core.Screen, v viewport, p Pair) {
	cfg := g.cfg
	half := cfg.Obstacles.Width / 2
	left, right := p.X-half, p.X+half

	lower := v.rect(left, p.LowerTop(cfg)-cfg.Obstacles.SegmentHeight, right, p.LowerTop(cfg))
	dst.DrawRect(lower, PipeChar, core.ColorGreen)
	dst.DrawHLine(lower.X, lower.Y, lower.W, PipeCapBottom, core.ColorBrightGreen)

	upper := v.rect(left, p.UpperBottom(cfg), right, p.UpperBottom(cfg)+cfg.Obstacles.SegmentHeight)
	dst.DrawRect(upper, PipeChar, core.ColorGreen)
	if !upper.Empty() {
		dst.DrawHLine(upper.X, upper.Bottom()-1, upper.W, PipeCapTop, core.ColorBrightGreen)
	}
}

// drawGround fills everything below the ground's top edge. The edge pattern
// scrolls with the obstacles.
func (g *Game) drawGround(dst *core.Screen, v viewport) {
	top := v.row(g.cfg.World.GroundHeight)
	area := core.RectFromEdges(0, top, dst.Width(), dst.Height())
	dst.DrawRect(area, GroundChar, core.ColorSand)

	offset := v.col(g.groundScroll)
	for x := 0; x < dst.Width(); x++ {
		r := GroundEdge
		if (x+offset)%6 == 0 {
			r = GroundMark
		}
		dst.SetColored(x, top, r, core.ColorYellow)
	}
}

// Actor glyphs per wing frame.
var (
	levelGlyphs   = [2]rune{'▶', '►'}
	climbGlyphs   = [2]rune{'◢', '◿'}
	descendGlyphs = [2]rune{'◥', '◹'}
)

// wingFrame returns which of the two wing frames is showing at tick.
func wingFrame(tick uint64, dt, period float64) int {
	if period <= 0 || dt <= 0 {
		return 0
	}
	ticksPerFrame := max(uint64(math.Round(period/dt)), 1)
	return int(tick / ticksPerFrame % 2)
}

// actorGlyph picks a glyph for the actor's rotation and wing frame.
func (g *Game) actorGlyph() rune {
	if g.phase != PhaseRunning {
		return '✖'
	}
	switch r := g.actor.Rotation; {
	case r >= 0.25:
		return climbGlyphs[g.frame]
	case r <= -0.5:
		return descendGlyphs[g.frame]
	default:
		return levelGlyphs[g.frame]
	}
}

func (g *Game) drawActor(dst *core.Screen, v viewport) {
	pos := g.actor.Position
	dst.SetColored(v.col(pos.X()), v.row(pos.Y()), g.actorGlyph(), core.ColorYellow)
}

// drawScore renders the score label, enlarged while it pulses.
func (g *Game) drawScore(dst *core.Screen) {
	if g.pulse > 1 {
		dst.DrawTextCentered(1, fmt.Sprintf("« %d »", g.score), core.ColorBrightYellow)
		return
	}
	dst.DrawTextCentered(1, fmt.Sprintf("%d", g.score), core.ColorWhite)
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)

	dst.DrawTextColored(boxX+(boxW-len(title))/2, boxY+1, title, core.ColorWhite)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}
