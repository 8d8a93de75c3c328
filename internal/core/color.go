package core

// Color is a presentation-only color tag carried by tiles and entities.
// The terminal front end maps each tag to an ANSI color.
type Color uint8

// Color tags used by the map, creatures, traps and HUD.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorOrange
	ColorGray
)
