// Package render draws the grid, cell highlights, particles and a status line
// onto a tcell screen.
package render

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/shoal/core"
	"github.com/lixenwraith/shoal/grid"
	"github.com/lixenwraith/shoal/status"
)

const (
	particleRune = '●'

	// Glow spring tuning
	glowFrequency = 6.0
	glowDamping   = 1.0
)

// Screen is the visual collaborator over a tcell.Screen
// The bottom terminal row is reserved for the status line
type Screen struct {
	screen tcell.Screen
	grid   *grid.Grid
	reg    *status.Registry
	keys   []string

	unitsPerColumn float64
	unitsPerRow    float64

	particles []r2.Vec
	placed    []bool

	// Per grid cell, row-major
	active  []bool
	glow    []float64
	glowVel []float64
	spring  harmonica.Spring
}

// NewScreen creates a renderer; reg may be nil
func NewScreen(screen tcell.Screen, g *grid.Grid, reg *status.Registry, unitsPerColumn, unitsPerRow float64, fps int) *Screen {
	n := g.Cols() * g.Rows()
	return &Screen{
		screen:         screen,
		grid:           g,
		reg:            reg,
		unitsPerColumn: unitsPerColumn,
		unitsPerRow:    unitsPerRow,
		active:         make([]bool, n),
		glow:           make([]float64, n),
		glowVel:        make([]float64, n),
		spring:         harmonica.NewSpring(harmonica.FPS(fps), glowFrequency, glowDamping),
	}
}

// SetStatusKeys selects the registry metrics shown on the status line
func (s *Screen) SetStatusKeys(keys ...string) {
	s.keys = keys
}

// SetParticleScreenPosition records a particle position in world units
func (s *Screen) SetParticleScreenPosition(id int, x, y float64) {
	if id < 0 {
		return
	}
	for len(s.particles) <= id {
		s.particles = append(s.particles, r2.Vec{})
		s.placed = append(s.placed, false)
	}
	s.particles[id] = r2.Vec{X: x, Y: y}
	s.placed[id] = true
}

// SetCellActive switches a cell highlight; out-of-range cells are ignored
func (s *Screen) SetCellActive(col, row int, active bool) {
	if i, ok := s.index(col, row); ok {
		s.active[i] = active
	}
}

// CellActive reports the highlight flag of a cell
func (s *Screen) CellActive(col, row int) bool {
	i, ok := s.index(col, row)
	return ok && s.active[i]
}

// Glow returns the current eased highlight level of a cell
func (s *Screen) Glow(col, row int) float64 {
	if i, ok := s.index(col, row); ok {
		return s.glow[i]
	}
	return 0
}

// Viewport returns the drawable field in world units
func (s *Screen) Viewport() core.Rect {
	w, h := s.screen.Size()
	if h > 0 {
		h-- // status line
	}
	return core.Rect{
		Width:  float64(w) * s.unitsPerColumn,
		Height: float64(h) * s.unitsPerRow,
	}
}

// Draw renders one frame and advances the glow springs
func (s *Screen) Draw() {
	s.stepGlow()

	w, h := s.screen.Size()
	fieldH := h - 1
	if w <= 0 || fieldH <= 0 {
		s.screen.Show()
		return
	}

	s.screen.Clear()
	cols, rows := s.grid.Cols(), s.grid.Rows()
	minDb := s.quietestDb()

	for y := 0; y < fieldH; y++ {
		row := int((float64(y) + 0.5) * float64(rows) / float64(fieldH))
		for x := 0; x < w; x++ {
			col := int((float64(x) + 0.5) * float64(cols) / float64(w))
			cell, ok := s.grid.At(core.CellPos{Col: col, Row: row})
			if !ok {
				continue
			}
			loudness := 0.0
			if minDb < 0 {
				loudness = 1 - cell.LoudnessDb/minDb
			}
			bg := CellColor(loudness, s.glow[row*cols+col])
			s.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(ToTcell(bg)))
		}
	}

	for id, pos := range s.particles {
		if !s.placed[id] {
			continue
		}
		x := int(math.Floor(pos.X / s.unitsPerColumn))
		y := int(math.Floor(pos.Y / s.unitsPerRow))
		if x < 0 || x >= w || y < 0 || y >= fieldH {
			continue
		}
		_, _, style, _ := s.screen.GetContent(x, y)
		s.screen.SetContent(x, y, particleRune, nil, style.Foreground(ToTcell(RgbParticle)))
	}

	s.drawStatus(w, h-1)
	s.screen.Show()
}

func (s *Screen) drawStatus(w, y int) {
	style := tcell.StyleDefault.Background(ToTcell(RgbStatusBg)).Foreground(ToTcell(RgbStatusText))
	text := " q:quit"
	if s.reg != nil && len(s.keys) > 0 {
		text = " " + s.reg.Format(s.keys...) + "  q:quit"
	}

	x := 0
	for _, r := range text {
		if x >= w {
			break
		}
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < w; x++ {
		s.screen.SetContent(x, y, ' ', nil, style)
	}
}

func (s *Screen) stepGlow() {
	for i := range s.glow {
		target := 0.0
		if s.active[i] {
			target = 1
		}
		s.glow[i], s.glowVel[i] = s.spring.Update(s.glow[i], s.glowVel[i], target)
	}
}

// quietestDb is the loudness of row 0
func (s *Screen) quietestDb() float64 {
	cell, ok := s.grid.At(core.CellPos{})
	if !ok {
		return 0
	}
	return cell.LoudnessDb
}

func (s *Screen) index(col, row int) (int, bool) {
	if !s.grid.InBounds(core.CellPos{Col: col, Row: row}) {
		return 0, false
	}
	return row*s.grid.Cols() + col, true
}
