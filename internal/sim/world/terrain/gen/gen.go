package gen

import "gridworld.ai/internal/sim/world/logic/mathx"

// Content is what a cell holds. It is derived from the coordinate alone and is
// never stored.
type Content uint8

const (
	Empty Content = iota
	Obstacle
	BotAnchor
)

func (c Content) String() string {
	switch c {
	case Obstacle:
		return "OBSTACLE"
	case BotAnchor:
		return "BOT_ANCHOR"
	default:
		return "EMPTY"
	}
}

const (
	// FieldLimit bounds sane coordinates. Classification does not enforce it.
	FieldLimit int64 = 1_000_000_000_000

	obstaclePercent = 3
	botHits         = 1 // per botModulo cells
	botModulo       = 200
	spawnClear      = 10
)

// Classify maps a cell to its content. Pure: no seed, no state.
func Classify(x, y int64) Content {
	if IsObstacle(x, y) {
		return Obstacle
	}
	if isAnchorCandidate(x, y) {
		return BotAnchor
	}
	return Empty
}

func IsObstacle(x, y int64) bool {
	if x == 0 && y == 0 {
		return false
	}
	return mathx.CellHash128(x, y).Mod(100) < obstaclePercent
}

func IsBotAnchor(x, y int64) bool {
	if IsObstacle(x, y) {
		return false
	}
	return isAnchorCandidate(x, y)
}

func isAnchorCandidate(x, y int64) bool {
	if WithinSpawnClear(x, y) {
		return false
	}
	return mathx.CellHash64(x, y)%botModulo < botHits
}

// WithinSpawnClear reports whether the cell is inside the anchor-free square
// around the origin.
func WithinSpawnClear(x, y int64) bool {
	return mathx.AbsInt64(x) < spawnClear && mathx.AbsInt64(y) < spawnClear
}

// InField reports whether a cell is inside the sanity bound.
func InField(x, y int64) bool {
	return mathx.AbsInt64(x) <= FieldLimit && mathx.AbsInt64(y) <= FieldLimit
}
