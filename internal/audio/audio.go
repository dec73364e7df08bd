// Package audio plays short procedural blips for sprite pauses and other UI
// events through oto.
package audio

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/oto/v2"
)

// MaxVoices caps how many effects may sound at once.
const MaxVoices = 4

// Player owns the oto context. A nil *Player is silent, so callers can keep
// one around when audio is unavailable.
type Player struct {
	ctx    *oto.Context
	ready  chan struct{}
	volume float64
	muted  atomic.Bool
	voices atomic.Int32
	clips  map[Sound][]byte
	log    *log.Logger
}

// New opens the default output device and pre-renders every sound.
func New(volume float64, logger *log.Logger) (*Player, error) {
	if logger == nil {
		logger = log.Default()
	}
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, err
	}
	clips := make(map[Sound][]byte)
	for _, s := range Sounds() {
		clips[s] = Generate(s)
	}
	return &Player{
		ctx:    ctx,
		ready:  ready,
		volume: clamp01(volume),
		clips:  clips,
		log:    logger,
	}, nil
}

// Play starts s on its own goroutine and returns immediately. It drops the
// sound when muted, before the device is ready or when MaxVoices are busy.
func (p *Player) Play(s Sound) {
	if p == nil || p.muted.Load() || p.volume <= 0 {
		return
	}
	select {
	case <-p.ready:
	default:
		return
	}
	data := p.clips[s]
	if len(data) == 0 {
		return
	}
	if p.voices.Add(1) > MaxVoices {
		p.voices.Add(-1)
		return
	}
	go func() {
		defer p.voices.Add(-1)
		player := p.ctx.NewPlayer(&sampleReader{data: data})
		player.SetVolume(p.volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			p.log.Debug("close audio player", "sound", s, "err", err)
		}
	}()
}

// ToggleMute flips the mute state and returns the new one.
func (p *Player) ToggleMute() bool {
	if p == nil {
		return true
	}
	for {
		old := p.muted.Load()
		if p.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (p *Player) Muted() bool { return p == nil || p.muted.Load() }

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
