// Package audio plays the found chime through the beep speaker.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/phanxgames/peekaboo"
)

const (
	sampleRate = beep.SampleRate(48000)

	chimeLow   = 880.0  // Hz
	chimeHigh  = 1318.5 // Hz, a fifth above
	toneLength = 160 * time.Millisecond
	chimeGain  = 0.25
)

// Chime plays a short two-tone chime whenever a character is found.
// Until Init succeeds every method is a silent no-op.
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewChime creates an uninitialized chime.
func NewChime() *Chime {
	return &Chime{mixer: &beep.Mixer{}}
}

// Init opens the speaker. Safe to call more than once.
func (c *Chime) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close silences pending chimes.
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// Play queues one chime.
func (c *Chime) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Add(newChimeStreamer(sampleRate))
	speaker.Unlock()
}

// OnFound plays a chime; pass it to Layer.OnFound.
func (c *Chime) OnFound(peekaboo.FoundEvent) {
	c.Play()
}

// newChimeStreamer returns the low tone followed by the high tone.
func newChimeStreamer(sr beep.SampleRate) beep.Streamer {
	return beep.Seq(
		newTone(sr, chimeLow, toneLength),
		newTone(sr, chimeHigh, toneLength*2),
	)
}

// tone is a sine with an exponential decay envelope.
type tone struct {
	sr    beep.SampleRate
	freq  float64
	pos   int
	total int
}

func newTone(sr beep.SampleRate, freq float64, d time.Duration) *tone {
	return &tone{sr: sr, freq: freq, total: sr.N(d)}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.total {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.total {
			return i, true
		}
		sec := float64(t.pos) / float64(t.sr)
		progress := float64(t.pos) / float64(t.total)
		v := chimeGain * math.Exp(-5*progress) * math.Sin(2*math.Pi*t.freq*sec)
		samples[i][0] = v
		samples[i][1] = v
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }
