package notification

import (
	"math"
	"sync"
	"time"
)

// Tone is one step of the synthesized fallback ring.
type Tone struct {
	Frequency float64
	Duration  time.Duration
}

// RingTones is the fallback sequence: the dual tone of the primary
// clip followed by the plain 800Hz beep.
func RingTones() []Tone {
	return []Tone{
		{Frequency: 800, Duration: 500 * time.Millisecond},
		{Frequency: 1000, Duration: 500 * time.Millisecond},
	}
}

// Synthesize renders a tone as 16-bit little-endian mono PCM with a
// linear decay, for sinks that want raw samples.
func Synthesize(tone Tone, sampleRate int) []byte {
	n := int(float64(sampleRate) * tone.Duration.Seconds())
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		decay := 1 - float64(i)/float64(n)
		sample := int16(math.Sin(2*math.Pi*tone.Frequency*t) * decay * math.MaxInt16 * 0.3)
		out = append(out, byte(sample), byte(sample>>8))
	}
	return out
}

// Sink is the audio output a Player drives. Implementations live at
// the session edge (an SSE client, a test fake).
type Sink interface {
	PlayClip() error
	PlayTones(tones []Tone) error
	Stop()
}

// SoundCommand is one playback instruction forwarded to the session's
// client, which owns the actual audio device.
type SoundCommand struct {
	Action string `json:"action"` // clip | tones | stop
	Tones  []Tone `json:"tones,omitempty"`
}

// ChannelSink emits playback commands on a channel. Lossy on a
// stalled consumer, like the notification updates themselves.
type ChannelSink struct {
	commands chan SoundCommand
}

func NewChannelSink() *ChannelSink {
	return &ChannelSink{commands: make(chan SoundCommand, 16)}
}

func (s *ChannelSink) Commands() <-chan SoundCommand {
	return s.commands
}

func (s *ChannelSink) PlayClip() error {
	s.send(SoundCommand{Action: "clip"})
	return nil
}

func (s *ChannelSink) PlayTones(tones []Tone) error {
	s.send(SoundCommand{Action: "tones", Tones: tones})
	return nil
}

func (s *ChannelSink) Stop() {
	s.send(SoundCommand{Action: "stop"})
}

func (s *ChannelSink) send(cmd SoundCommand) {
	select {
	case s.commands <- cmd:
	default:
	}
}

// Player enforces the sound rules: only one sound at a time, and the
// primary clip falls back to the synthesized ring when it cannot play.
type Player struct {
	mu   sync.Mutex
	sink Sink
}

func NewPlayer(sink Sink) *Player {
	return &Player{sink: sink}
}

func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Starting a new sound stops the previous one.
	p.sink.Stop()

	if err := p.sink.PlayClip(); err == nil {
		return nil
	}

	return p.sink.PlayTones(RingTones())
}

func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sink.Stop()
}
