package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snakes-foxes/internal/board"
	"github.com/vovakirdan/snakes-foxes/internal/core"
	"github.com/vovakirdan/snakes-foxes/internal/game"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	core.ColorBrightCyan:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Glyphs used on the board.
const (
	glyphNode      = '·'
	glyphCenter    = 'O'
	glyphWarpBack  = '~'
	glyphWarpStay  = '*'
	glyphLegal     = '+'
	glyphFox       = 'F'
	glyphSnake     = 'S'
	glyphCursorL   = '['
	glyphCursorR   = ']'
	statusMinWidth = 30
)

// Projection maps board nodes onto screen cells inside an area. The board
// geometry is scaled to fit, with cells counted as twice as tall as wide.
type Projection struct {
	board  *board.Board
	layout board.Layout
	geo    board.Geometry
	cx, cy int
	scaleX float64
	scaleY float64
}

// NewProjection fits a rings x perRing board into area.
func NewProjection(rings, perRing int, geo board.Geometry, area core.Rect) (Projection, bool) {
	b, err := board.New(rings, perRing)
	if err != nil || geo.RingSpacing <= 0 {
		return Projection{}, false
	}

	radius := float64(rings * geo.RingSpacing)
	sy := math.Min(float64(area.H-3)/(2*radius), float64(area.W-3)/(4*radius))
	if sy <= 0 {
		return Projection{}, false
	}

	cx, cy := area.Center()
	return Projection{
		board:  b,
		layout: board.NewLayout(b, geo),
		geo:    geo,
		cx:     cx,
		cy:     cy,
		scaleX: 2 * sy,
		scaleY: sy,
	}, true
}

// Cell returns the screen cell of n.
func (p Projection) Cell(n board.Node) (int, int) {
	pt := p.layout.Position(n)
	x := p.cx + int(math.Round(float64(pt.X-p.geo.CenterX)*p.scaleX))
	y := p.cy + int(math.Round(float64(pt.Y-p.geo.CenterY)*p.scaleY))
	return x, y
}

// Nearest returns the candidate whose cell is closest to (x, y), if one
// lies within two cells.
func (p Projection) Nearest(x, y int, candidates []board.Node) (board.Node, bool) {
	best := board.None
	bestDist := math.MaxFloat64
	for _, n := range candidates {
		nx, ny := p.Cell(n)
		// Rows are twice as tall as columns are wide.
		d := math.Hypot(float64(nx-x), 2*float64(ny-y))
		if d < bestDist {
			best, bestDist = n, d
		}
	}
	if best.IsNone() || bestDist > 2 {
		return board.None, false
	}
	return best, true
}

// DrawBoard draws the rings and every piece of s into area. cursor marks
// the legal move currently under the cursor and may be board.None.
func DrawBoard(scr *core.Screen, s game.Snapshot, cursor board.Node, area core.Rect) (Projection, bool) {
	proj, ok := NewProjection(s.Rings, s.NodesPerRing, s.Geometry, area)
	if !ok {
		scr.DrawTextColor(area.X, area.Y, "terminal too small", core.ColorRed)
		return proj, false
	}

	put := func(n board.Node, r rune, c core.Color) {
		x, y := proj.Cell(n)
		scr.SetWithColor(x, y, r, c)
	}

	for _, n := range proj.board.Nodes() {
		switch {
		case n.IsCenter():
			put(n, glyphCenter, core.ColorRing)
		case proj.board.Effect(n).Kind == board.EffectWarpBack:
			put(n, glyphWarpBack, core.ColorRing)
		case proj.board.Effect(n).Kind == board.EffectWarpStay:
			put(n, glyphWarpStay, core.ColorRing)
		default:
			put(n, glyphNode, core.ColorRing)
		}
	}

	for _, n := range s.Legal {
		put(n, glyphLegal, core.ColorHighlight)
	}
	for _, n := range s.Snakes {
		c := core.ColorSnake
		if n == s.Pursuer && s.Phase == game.PhaseSnakePursuit {
			c = core.ColorRed
		}
		put(n, glyphSnake, c)
	}
	for _, n := range s.Foxes {
		c := core.ColorFox
		if n == s.Pursuer && s.Phase == game.PhaseFoxPursuit {
			c = core.ColorRed
		}
		put(n, glyphFox, c)
	}

	for seat, pv := range s.Players {
		if !pv.Active {
			continue
		}
		x, y := proj.Cell(pv.Node)
		// Two tokens sharing a node sit side by side.
		if seat == 1 && s.Players[0].Active && s.Players[0].Node == pv.Node {
			x++
		}
		scr.SetWithColor(x, y, rune('1'+seat), playerColor(seat))
	}

	if !cursor.IsNone() {
		x, y := proj.Cell(cursor)
		scr.SetWithColor(x-1, y, glyphCursorL, core.ColorCursor)
		scr.SetWithColor(x+1, y, glyphCursorR, core.ColorCursor)
	}

	return proj, true
}

func playerColor(seat int) core.Color {
	if seat == 1 {
		return core.ColorPlayer2
	}
	return core.ColorPlayer1
}

// DrawStatus writes the turn, roll, pieces and message log of s into area.
// you is the local player in an online match, NoPlayer in hot-seat play.
func DrawStatus(scr *core.Screen, s game.Snapshot, you core.PlayerID, area core.Rect) {
	y := area.Y
	line := func(text string, c core.Color) {
		if y >= area.Bottom() {
			return
		}
		runes := []rune(text)
		if len(runes) > area.W {
			runes = runes[:area.W]
		}
		scr.DrawTextColor(area.X, y, string(runes), c)
		y++
	}

	line(strings.ToUpper(s.Title), core.ColorWhite)
	line(fmt.Sprintf("%d rings x %d  ·  %s dice", s.Rings, s.NodesPerRing, s.Mode), core.ColorGray)
	y++

	turn := fmt.Sprintf("Turn: %s", s.CurrentPlayer())
	if you != core.NoPlayer && s.CurrentPlayer() == you {
		turn += " (you)"
	}
	if !s.GameOver {
		line(turn, playerColor(s.Current))
	}
	line(s.Label, core.ColorHighlight)
	if s.Rolled {
		line("Roll: "+s.Roll.String(), core.ColorDefault)
	}
	y++

	for seat, pv := range s.Players {
		state := fmt.Sprintf("%d piece(s)", pv.Pieces)
		switch {
		case !pv.Active:
			state = "captured"
		case pv.VisitedOuter:
			state += ", heading home"
		}
		name := core.PlayerForSeat(seat).String()
		if you == core.PlayerForSeat(seat) {
			name += " (you)"
		}
		line(fmt.Sprintf("%s: %s", name, state), playerColor(seat))
	}
	line(fmt.Sprintf("Turns: %d/%d", s.TotalTurns, s.MaxTurns), core.ColorGray)
	y++

	if s.GameOver {
		line("GAME OVER", core.ColorBrightRed)
		if w := s.WinnerPlayer(); w != core.NoPlayer {
			line(fmt.Sprintf("%s wins! (%s)", w, s.Reason), playerColor(s.Winner))
		} else {
			line(fmt.Sprintf("No winner (%s)", s.Reason), core.ColorDefault)
		}
		y++
	} else if s.Paused {
		line("PAUSED", core.ColorBrightYellow)
		y++
	}

	if s.Notice != "" {
		line(s.Notice, core.ColorBrightYellow)
		y++
	}

	for _, msg := range s.Messages {
		line(msg, core.ColorGray)
	}
}

// gameAreas splits a w x h screen into the board and the status panel.
func gameAreas(w, h int) (boardArea, statusArea core.Rect) {
	statusW := max(statusMinWidth, w/3)
	boardArea = core.NewRect(0, 0, w-statusW-1, h)
	statusArea = core.NewRect(w-statusW, 1, statusW, h-1)
	return boardArea, statusArea
}

// drawGame lays out the board on the left and the status panel on the right.
func drawGame(scr *core.Screen, s game.Snapshot, cursor board.Node, you core.PlayerID) {
	scr.Clear()
	boardArea, statusArea := gameAreas(scr.Width(), scr.Height())
	DrawBoard(scr, s, cursor, boardArea)
	DrawStatus(scr, s, you, statusArea)
}
