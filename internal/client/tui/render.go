// Package tui draws session frames on a terminal, one terminal cell per grid
// cell. Grid Y grows upward; screen rows grow downward.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"gridworld.ai/internal/protocol"
	"gridworld.ai/internal/sim/world"
)

var (
	styleGrid     = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	styleObstacle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBot      = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleTalking  = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleSpeech   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	stylePlayer   = tcell.StyleDefault.Foreground(tcell.ColorLightGreen).Bold(true)
	styleVoice    = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
	styleChat     = tcell.StyleDefault.Foreground(tcell.ColorLightCyan)
)

const (
	runeGrid     = '·'
	runeObstacle = '#'
	runeBot      = 'b'
	runeTalking  = 'B'
	runePlayer   = '@'
	runeVoice    = ')'
)

// Projector maps world pixel positions onto screen cells around the camera.
type Projector struct {
	CellSize   float64
	// Camera in world pixels; it lands on the screen center.
	CamX, CamY float64
	Cols, Rows int
}

func NewProjector(f protocol.FrameMsg, cellSize float64, cols, rows int) Projector {
	if cellSize <= 0 {
		cellSize = 1
	}
	return Projector{CellSize: cellSize, CamX: f.Camera.X, CamY: f.Camera.Y, Cols: cols, Rows: rows}
}

// Pixel projects a world pixel position.
func (p Projector) Pixel(x, y float64) (col, row int) {
	col = p.Cols/2 + int(math.Round((x-p.CamX)/p.CellSize))
	row = p.Rows/2 - int(math.Round((y-p.CamY)/p.CellSize))
	return col, row
}

// Cell projects a grid cell.
func (p Projector) Cell(c protocol.Cell) (col, row int) {
	return p.Pixel(float64(c.X)*p.CellSize, float64(c.Y)*p.CellSize)
}

func (p Projector) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < p.Cols && row < p.Rows
}

// ViewportFor is the pixel viewport covered by a cols x rows terminal.
func ViewportFor(cols, rows int, cellSize float64) protocol.Viewport {
	return protocol.Viewport{
		Width:  float64(cols) * cellSize,
		Height: float64(rows) * cellSize,
		Scale:  1,
	}
}

// Draw renders f onto s. words is the session vocabulary shown in the footer.
func Draw(s tcell.Screen, f protocol.FrameMsg, words []string, cellSize float64) {
	s.Clear()
	cols, rows := s.Size()
	p := NewProjector(f, cellSize, cols, rows)

	for y := f.Grid.MinY; y <= f.Grid.MaxY; y++ {
		for x := f.Grid.MinX; x <= f.Grid.MaxX; x++ {
			put(s, p, protocol.Cell{X: x, Y: y}, runeGrid, styleGrid)
		}
	}
	for _, o := range f.Obstacles {
		put(s, p, o, runeObstacle, styleObstacle)
	}
	for _, b := range f.Bots {
		col, row := p.Pixel(b.Render.X, b.Render.Y)
		if !p.inside(col, row) {
			continue
		}
		if b.State == "TALKING" {
			s.SetContent(col, row, runeTalking, nil, styleTalking)
		} else {
			s.SetContent(col, row, runeBot, nil, styleBot)
		}
		if b.Response != "" {
			drawText(s, col+1, row-1, cols, b.Response, styleSpeech)
		}
	}

	pc, pr := p.Pixel(f.Player.Rendered.X, f.Player.Rendered.Y)
	if p.inside(pc, pr) {
		s.SetContent(pc, pr, runePlayer, nil, stylePlayer)
		if f.Speaking && p.inside(pc+1, pr) {
			s.SetContent(pc+1, pr, runeVoice, nil, styleVoice)
		}
		if f.Player.Emote != "" {
			drawText(s, pc, pr-1, cols, f.Player.Emote, styleSpeech)
		}
	}

	drawHUD(s, f, cols)
	drawFooter(s, f, words, cols, rows)
	s.Show()
}

func put(s tcell.Screen, p Projector, c protocol.Cell, r rune, st tcell.Style) {
	col, row := p.Cell(c)
	if p.inside(col, row) {
		s.SetContent(col, row, r, nil, st)
	}
}

func drawText(s tcell.Screen, col, row, maxCols int, text string, st tcell.Style) {
	if row < 0 {
		return
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > maxCols {
			return
		}
		if col >= 0 {
			s.SetContent(col, row, r, nil, st)
		}
		col += w
	}
}

// HUDLine is the status bar text.
func HUDLine(f protocol.FrameMsg) string {
	return fmt.Sprintf(" (%d, %d) %s  bots:%d  frame:%d ",
		f.Player.Cell.X, f.Player.Cell.Y, f.Player.Facing, len(f.Bots), f.Frame)
}

func drawHUD(s tcell.Screen, f protocol.FrameMsg, cols int) {
	line := HUDLine(f)
	if pad := cols - len([]rune(line)); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	drawText(s, 0, 0, cols, line, styleHUD)
}

// VocabularyLine lists the speakable words with their keys.
func VocabularyLine(words []string) string {
	var b strings.Builder
	for i, w := range words {
		if i >= len(sayKeys) {
			break
		}
		fmt.Fprintf(&b, "%c:%s ", sayKeys[i], w)
	}
	b.WriteString(" ^S:save q:quit")
	return b.String()
}

// EmoteLine lists the emote keys with what each shows.
func EmoteLine(e protocol.Emotes) string {
	return fmt.Sprintf("a:%s s:%s d:%s S/D:change", world.EmoteThumbsUp, e.S, e.D)
}

func drawFooter(s tcell.Screen, f protocol.FrameMsg, words []string, cols, rows int) {
	drawText(s, 0, rows-1, cols, VocabularyLine(words)+"  "+EmoteLine(f.Player.Emotes), styleHUD)
	row := rows - 1 - len(f.Chat)
	for _, line := range f.Chat {
		drawText(s, 0, row, cols, line, styleChat)
		row++
	}
}
