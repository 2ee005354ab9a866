package core

// Color is the foreground role of a screen cell. Front ends map roles to
// their own palette.
type Color uint8

const (
	ColorDefault Color = iota
	ColorHead          // snake head
	ColorBody          // rest of the snake
	ColorFood
	ColorFrame // board border
	ColorHUD   // score line
	ColorBanner
)
