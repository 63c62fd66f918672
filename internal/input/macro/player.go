package macro

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dshills/keys/internal/input/key"
)

// Emitter delivers replayed events. source.Memory satisfies it.
type Emitter interface {
	Emit(ev *key.Event) int
}

// Player replays macros.
type Player struct {
	speed   float64
	playing atomic.Bool
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithSpeed paces playback like the recording, scaled by factor: 1 is
// real time, 2 twice as fast. Zero, the default, plays without delays.
func WithSpeed(factor float64) PlayerOption {
	return func(p *Player) {
		p.speed = factor
	}
}

// NewPlayer creates a player.
func NewPlayer(opts ...PlayerOption) *Player {
	p := &Player{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsPlaying reports whether a macro is being played.
func (p *Player) IsPlaying() bool {
	return p.playing.Load()
}

// Play emits every step of m to out, count times (at least once), and
// blocks until done or ctx is canceled. One macro plays at a time.
func (p *Player) Play(ctx context.Context, m *Macro, out Emitter, count int) error {
	if m == nil || len(m.Steps) == 0 {
		return ErrEmptyMacro
	}
	if !p.playing.CompareAndSwap(false, true) {
		return ErrAlreadyPlaying
	}
	defer p.playing.Store(false)

	count = max(count, 1)
	for range count {
		var last time.Duration
		for _, step := range m.Steps {
			if err := p.wait(ctx, step.Offset-last); err != nil {
				return err
			}
			last = step.Offset
			out.Emit(step.Event())
		}
	}
	return nil
}

func (p *Player) wait(ctx context.Context, gap time.Duration) error {
	if p.speed <= 0 || gap <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(float64(gap) / p.speed))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
