package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightCyan
	ColorOrange
	ColorGray
)

// Colors used for the pieces and board marks.
const (
	ColorPlayer1   = ColorBrightCyan
	ColorPlayer2   = ColorBrightYellow
	ColorFox       = ColorOrange
	ColorSnake     = ColorBrightGreen
	ColorRing      = ColorGray
	ColorHighlight = ColorMagenta
	ColorCursor    = ColorBrightRed
)
