package world

import "math"

// Region is an inclusive rectangle of cells.
type Region struct {
	MinX int64 `json:"min_x"`
	MaxX int64 `json:"max_x"`
	MinY int64 `json:"min_y"`
	MaxY int64 `json:"max_y"`
}

// VisibleRegion returns the cells covered by the view plus margin cells on every
// side. Partially visible boundary cells are included.
func VisibleRegion(v View, cellSize, margin float64) Region {
	halfW := v.Width / 2 * v.Scale
	halfH := v.Height / 2 * v.Scale
	return Region{
		MinX: int64(math.Floor((v.Camera.X-halfW)/cellSize - margin)),
		MaxX: int64(math.Ceil((v.Camera.X+halfW)/cellSize + margin)),
		MinY: int64(math.Floor((v.Camera.Y-halfH)/cellSize - margin)),
		MaxY: int64(math.Ceil((v.Camera.Y+halfH)/cellSize + margin)),
	}
}

func (r Region) Contains(c Cell) bool {
	return c.X >= r.MinX && c.X <= r.MaxX && c.Y >= r.MinY && c.Y <= r.MaxY
}

func (r Region) Width() int64  { return r.MaxX - r.MinX + 1 }
func (r Region) Height() int64 { return r.MaxY - r.MinY + 1 }
func (r Region) Cells() int64  { return r.Width() * r.Height() }

// Each visits every cell, x-major.
func (r Region) Each(fn func(Cell)) {
	for x := r.MinX; x <= r.MaxX; x++ {
		for y := r.MinY; y <= r.MaxY; y++ {
			fn(Cell{X: x, Y: y})
		}
	}
}
