package world

import (
	"math"

	"gridworld.ai/internal/sim/world/terrain/gen"
)

// Cell addresses one unit square of the grid.
type Cell struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

func (c Cell) Add(dx, dy int64) Cell { return Cell{X: c.X + dx, Y: c.Y + dy} }

// Pixel projects the cell center into pixel space.
func (c Cell) Pixel(cellSize float64) Vec2 {
	return Vec2{X: float64(c.X) * cellSize, Y: float64(c.Y) * cellSize}
}

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Len() float64    { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Len()
}

// Vec3 carries a depth component that interpolation leaves alone.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) XY() Vec2 { return Vec2{X: v.X, Y: v.Y} }

// Rand is the random source used for bot cadence, direction and dialogue picks.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Viewport is the observer's pixel extent and zoom.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0 && v.Scale > 0
}

// View is a camera position plus the viewport it looks through.
type View struct {
	Camera Vec2
	Viewport
}

// Utterance is a one-shot speech event at a position.
type Utterance struct {
	At   Vec2
	Word string
}

// IsObstacleCell adapts the classifier to Cell.
func IsObstacleCell(c Cell) bool { return gen.IsObstacle(c.X, c.Y) }

func isBotAnchorCell(c Cell) bool { return gen.IsBotAnchor(c.X, c.Y) }
