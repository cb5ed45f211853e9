// Package audio plays the short voice blip heard when the player speaks.
package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	SampleRate   = beep.SampleRate(44100)
	BlipDuration = 120 * time.Millisecond
	blipRelease  = 80 * time.Millisecond
)

// One pitch per vocabulary key.
var wordPitch = []float64{440, 523.25, 659.25, 783.99}

// Blip returns a finite tone for the word at index, faded out at the end.
func Blip(rate beep.SampleRate, index int) (beep.Streamer, error) {
	freq := wordPitch[0]
	if index >= 0 && index < len(wordPitch) {
		freq = wordPitch[index]
	}
	tone, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("sine tone: %w", err)
	}
	total := rate.N(BlipDuration)
	return &fadeOut{
		s:       beep.Take(total, tone),
		total:   total,
		release: rate.N(blipRelease),
	}, nil
}

// fadeOut ramps the last release samples down to silence.
type fadeOut struct {
	s       beep.Streamer
	pos     int
	total   int
	release int
}

func (f *fadeOut) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.s.Stream(samples)
	start := f.total - f.release
	for i := 0; i < n; i++ {
		if f.pos >= start && f.release > 0 {
			vol := float64(f.total-f.pos) / float64(f.release)
			if vol < 0 {
				vol = 0
			}
			samples[i][0] *= vol
			samples[i][1] *= vol
		}
		f.pos++
	}
	return n, ok
}

func (f *fadeOut) Err() error { return f.s.Err() }

// Voice owns the speaker. A nil Voice is silent.
type Voice struct {
	rate beep.SampleRate
}

func NewVoice() (*Voice, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Voice{rate: SampleRate}, nil
}

func (v *Voice) Say(index int) {
	if v == nil {
		return
	}
	s, err := Blip(v.rate, index)
	if err != nil {
		return
	}
	speaker.Play(s)
}

func (v *Voice) Close() {
	if v == nil {
		return
	}
	speaker.Close()
}
