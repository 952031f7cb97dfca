package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/shoal/core"
)

// Palette
var (
	RgbCellQuiet  = core.RGB{R: 30, G: 34, B: 54}    // Quietest row
	RgbCellLoud   = core.RGB{R: 60, G: 80, B: 130}   // Loudest row
	RgbCellActive = core.RGB{R: 255, G: 165, B: 0}   // Orange glow on a sounding cell
	RgbParticle   = core.RGB{R: 255, G: 255, B: 255} // White
	RgbStatusBg   = core.RGB{R: 135, G: 206, B: 250} // Light sky blue
	RgbStatusText = core.RGB{R: 0, G: 0, B: 0}       // Dark text for status
)

// ToTcell converts an explicit RGB to a tcell color
func ToTcell(c core.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// CellColor returns the background of a grid cell
// loudness is normalized to [0,1] across rows, glow in [0,1] fades toward the active color
func CellColor(loudness, glow float64) core.RGB {
	return RgbCellQuiet.Blend(RgbCellLoud, loudness).Blend(RgbCellActive, glow)
}
