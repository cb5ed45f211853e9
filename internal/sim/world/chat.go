package world

import "time"

type chatLine struct {
	text  string
	timer Timer
}

// ChatLog holds the player's recent lines, each expiring after a fixed time.
type ChatLog struct {
	lines   []chatLine
	ttl     time.Duration
	visible int
}

func NewChatLog(ttl time.Duration, visible int) *ChatLog {
	return &ChatLog{ttl: ttl, visible: visible}
}

func (c *ChatLog) Push(text string) {
	c.lines = append(c.lines, chatLine{text: text, timer: NewTimer(c.ttl, TimerOnce)})
}

func (c *ChatLog) Step(dt time.Duration) {
	kept := c.lines[:0]
	for _, l := range c.lines {
		l.timer.Tick(dt)
		if !l.timer.Finished() {
			kept = append(kept, l)
		}
	}
	c.lines = kept
}

// Active reports whether anything was said recently.
func (c *ChatLog) Active() bool { return len(c.lines) > 0 }

// Visible returns the newest lines, oldest first.
func (c *ChatLog) Visible() []string {
	start := 0
	if len(c.lines) > c.visible {
		start = len(c.lines) - c.visible
	}
	out := make([]string, 0, len(c.lines)-start)
	for _, l := range c.lines[start:] {
		out = append(out, l.text)
	}
	return out
}
