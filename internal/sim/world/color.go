package world

import "strings"

// Color is a dye color carried by colored blocks and items.
type Color string

const (
	ColorNone      Color = ""
	ColorWhite     Color = "WHITE"
	ColorOrange    Color = "ORANGE"
	ColorMagenta   Color = "MAGENTA"
	ColorLightBlue Color = "LIGHT_BLUE"
	ColorYellow    Color = "YELLOW"
	ColorLime      Color = "LIME"
	ColorPink      Color = "PINK"
	ColorGray      Color = "GRAY"
	ColorSilver    Color = "SILVER"
	ColorCyan      Color = "CYAN"
	ColorPurple    Color = "PURPLE"
	ColorBlue      Color = "BLUE"
	ColorBrown     Color = "BROWN"
	ColorGreen     Color = "GREEN"
	ColorRed       Color = "RED"
	ColorBlack     Color = "BLACK"
)

var knownColors = map[Color]struct{}{
	ColorWhite: {}, ColorOrange: {}, ColorMagenta: {}, ColorLightBlue: {},
	ColorYellow: {}, ColorLime: {}, ColorPink: {}, ColorGray: {},
	ColorSilver: {}, ColorCyan: {}, ColorPurple: {}, ColorBlue: {},
	ColorBrown: {}, ColorGreen: {}, ColorRed: {}, ColorBlack: {},
}

func (c Color) Valid() bool {
	_, ok := knownColors[c]
	return ok
}

func ParseColor(s string) (Color, bool) {
	c := Color(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return ColorNone, false
	}
	return c, true
}

// WoolName is the display name used in player-facing messages, e.g. "Light Blue Wool".
func (c Color) WoolName() string {
	parts := strings.Split(strings.ToLower(string(c)), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ") + " Wool"
}
