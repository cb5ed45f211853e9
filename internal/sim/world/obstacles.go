package world

// Obstacle is a rendered obstacle. It carries nothing but its cell.
type Obstacle struct {
	Cell Cell
}

// ObstacleStreamer mirrors the classifier's obstacles over the visible region.
type ObstacleStreamer struct {
	live []Obstacle
}

// Regenerate drops every live obstacle and spawns one per obstacle cell in r.
func (s *ObstacleStreamer) Regenerate(r Region) (despawned, spawned int) {
	despawned = len(s.live)
	s.live = s.live[:0]
	r.Each(func(c Cell) {
		if IsObstacleCell(c) {
			s.live = append(s.live, Obstacle{Cell: c})
		}
	})
	return despawned, len(s.live)
}

func (s *ObstacleStreamer) Live() []Obstacle { return s.live }
func (s *ObstacleStreamer) Len() int         { return len(s.live) }
