package playback

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// DefaultBufferDuration is the device buffer requested from the driver.
const DefaultBufferDuration = 20 * time.Millisecond

// Player streams float32 PCM from a reader to the default audio device.
// Only one Player may exist per process.
type Player struct {
	ctx    *oto.Context
	player *oto.Player

	mu      sync.Mutex
	started bool
}

// NewPlayer opens the audio device and attaches r. Playback starts on
// [Player.Play].
func NewPlayer(r io.Reader, sampleRate, channels int, buffer time.Duration) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   buffer,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("playback: open device: %w", err)
	}
	<-ready

	return &Player{ctx: ctx, player: ctx.NewPlayer(r)}, nil
}

func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		p.player.Play()
		p.started = true
	}
}

// Playing reports whether the device is still pulling samples.
func (p *Player) Playing() bool {
	return p.player.IsPlaying()
}

// Err returns the error that stopped playback, if any.
func (p *Player) Err() error {
	return p.player.Err()
}

func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = false
	return p.player.Close()
}
