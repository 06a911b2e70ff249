// Package cue plays a short procedural chime when the crowd starts following
// the pointer.
package cue

import (
	"bytes"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/oto/v2"

	"crowdgaze/internal/crowd"
)

// MinInterval keeps rapid enter/leave wiggles from stacking chimes.
const MinInterval = 1.5 * time.Second

type Player struct {
	ctx    *oto.Context
	ready  chan struct{}
	chime  []byte
	volume float64
	log    *log.Logger

	playing atomic.Bool
	last    time.Time
	now     func() time.Time
}

// New opens the audio device. The chime is rendered once up front.
func New(volume float64, logger *log.Logger) (*Player, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Player{
		ctx:    ctx,
		ready:  ready,
		chime:  Chime(1),
		volume: volume,
		log:    logger,
		now:    time.Now,
	}, nil
}

// Attach subscribes the player to crowd mode changes.
func (p *Player) Attach(bus *crowd.EventBus) {
	bus.Subscribe(crowd.EventModeChanged, func(e crowd.Event) {
		if e.Mode == crowd.ModeTracking {
			p.Play()
		}
	})
}

// Play starts the chime on a background goroutine unless the device is not
// ready yet, a chime is still playing, or the last one was too recent.
func (p *Player) Play() {
	select {
	case <-p.ready:
	default:
		return
	}
	now := p.now()
	if now.Sub(p.last) < MinInterval {
		return
	}
	if !p.playing.CompareAndSwap(false, true) {
		return
	}
	p.last = now
	p.log.Debug("chime")
	go func() {
		defer p.playing.Store(false)
		player := p.ctx.NewPlayer(bytes.NewReader(p.chime))
		player.SetVolume(p.volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			p.log.Warn("close audio player", "err", err)
		}
	}()
}
