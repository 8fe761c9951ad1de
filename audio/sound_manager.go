package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/npc-locomotion/parameter"
)

// Cue is a short sound tied to a locomotion event
type Cue uint8

const (
	CueJump Cue = iota
	CueFire
	CueDamage
	CueCount
)

var cueNames = [CueCount]string{"jump", "fire", "damage"}

func (c Cue) String() string {
	if c >= CueCount {
		return "unknown"
	}
	return cueNames[c]
}

// SoundManager plays event cues through a single mixer
// Every method is safe before Initialize and after Cleanup, cues are dropped
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	sampleRate  beep.SampleRate
	volume      float64
	initialized bool
}

// NewSoundManager creates a sound manager at the given master volume (0..1)
func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		mixer:      &beep.Mixer{},
		sampleRate: beep.SampleRate(parameter.SandboxSampleRate),
		volume:     math.Max(0, math.Min(1, volume)),
	}
}

// Initialize opens the speaker, failure leaves the manager silent
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	err := speaker.Init(sm.sampleRate, sm.sampleRate.N(time.Second/10))
	if err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all cues and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

// Initialized reports whether the speaker is open
func (sm *SoundManager) Initialized() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Play queues a cue on the mixer
func (sm *SoundManager) Play(c Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	s, err := Streamer(c, sm.sampleRate, sm.volume)
	if err != nil {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// Streamer builds the finite stream for a cue
func Streamer(c Cue, rate beep.SampleRate, volume float64) (beep.Streamer, error) {
	duration := parameter.SandboxToneDuration
	var src beep.Streamer

	switch c {
	case CueJump:
		src = newSweep(rate, parameter.SandboxJumpToneHz, parameter.SandboxJumpToneHz*1.5, duration)
	case CueFire:
		sine, err := generators.SineTone(rate, parameter.SandboxFireToneHz)
		if err != nil {
			return nil, fmt.Errorf("fire cue: %w", err)
		}
		src = sine
	case CueDamage:
		src = newBuzz(rate, parameter.SandboxDamageToneHz)
	default:
		return nil, fmt.Errorf("unknown cue %d", c)
	}

	shaped := newEnvelope(beep.Take(rate.N(duration), src), duration, parameter.SandboxToneAttack, parameter.SandboxToneRelease, rate)
	return newVolume(shaped, volume*parameter.SandboxToneVolume), nil
}

// newVolume wraps s at a linear volume, zero is silent since log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// sweep is a sine gliding linearly from one frequency to another
type sweep struct {
	rate     beep.SampleRate
	from, to float64
	total    int
	pos      int
	phase    float64
}

func newSweep(rate beep.SampleRate, from, to float64, d time.Duration) *sweep {
	return &sweep{rate: rate, from: from, to: to, total: max(rate.N(d), 1)}
}

func (g *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := math.Min(float64(g.pos)/float64(g.total), 1)
		freq := g.from + (g.to-g.from)*t
		g.phase += 2 * math.Pi * freq / float64(g.rate)
		s := math.Sin(g.phase)
		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

func (g *sweep) Err() error { return nil }

// buzz is a harmonic-rich low tone for hits
type buzz struct {
	rate beep.SampleRate
	freq float64
	pos  int
}

func newBuzz(rate beep.SampleRate, freq float64) *buzz {
	return &buzz{rate: rate, freq: freq}
}

func (g *buzz) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.rate)
		s := 0.6*math.Sin(2*math.Pi*g.freq*t) +
			0.3*math.Sin(2*math.Pi*g.freq*2*t) +
			0.15*math.Sin(2*math.Pi*g.freq*3*t)
		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

func (g *buzz) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	release      int
	totalSamples int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:     s,
		attack:       rate.N(attack),
		release:      rate.N(release),
		totalSamples: rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}

		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.totalSamples - e.position; e.release > 0 && remaining < e.release {
			vol = math.Min(vol, float64(remaining)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }
