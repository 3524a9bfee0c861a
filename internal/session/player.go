package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/gospot/internal/domain"
)

// Player controls playback of the session's single player.
// Decoded audio is delivered through CallbackHandler.MusicDelivery.
//
// Thread-safety: Player is safe for concurrent use.
type Player struct {
	s      *Session
	logger *slog.Logger

	// mu protects the fields below
	mu      sync.RWMutex
	track   *Track
	playing bool
}

func newPlayer(s *Session) *Player {
	return &Player{
		s:      s,
		logger: s.logger.With(slog.String("component", "player")),
	}
}

// Load loads t for playback. The track must be loaded; loading an unloaded track
// fails with a native error (is loading). The player does not own t.
func (p *Player) Load(t *Track) error {
	if t == nil {
		return domain.NewValidationError("track", nil, "track is required")
	}
	err := p.s.gate.Do(func() error {
		if t.isClosed() {
			return domain.ErrEntityClosed
		}
		raw, err := p.s.raw()
		if err != nil {
			return err
		}
		return p.s.check("player_load", p.s.native.PlayerLoad(raw, t.Handle()))
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.track = t
	p.playing = false
	p.mu.Unlock()

	p.logger.Debug("track loaded", slog.String("track", t.Name()))
	return nil
}

// Play starts or resumes playback of the loaded track.
func (p *Player) Play() error {
	return p.play(true)
}

// Pause pauses playback.
func (p *Player) Pause() error {
	return p.play(false)
}

func (p *Player) play(play bool) error {
	err := p.s.call("player_play", func(raw domain.Handle) domain.Result {
		return p.s.native.PlayerPlay(raw, play)
	})
	if err == nil {
		p.setPlaying(play)
	}
	return err
}

// Seek moves the playback position of the loaded track.
func (p *Player) Seek(offset time.Duration) error {
	if offset < 0 {
		return domain.NewValidationError("offset", offset, "offset must not be negative")
	}
	return p.s.call("player_seek", func(raw domain.Handle) domain.Result {
		return p.s.native.PlayerSeek(raw, offset)
	})
}

// Stop stops playback and unloads the current track.
func (p *Player) Stop() error {
	return p.s.gate.Do(func() error {
		raw, err := p.s.raw()
		if err != nil {
			return err
		}
		return p.unload(raw)
	})
}

// unload runs inside the gate.
func (p *Player) unload(raw domain.Handle) error {
	if err := p.s.check("player_unload", p.s.native.PlayerUnload(raw)); err != nil {
		return err
	}
	p.mu.Lock()
	p.track = nil
	p.playing = false
	p.mu.Unlock()
	return nil
}

// Prefetch hints the library to start downloading t for gapless playback.
func (p *Player) Prefetch(t *Track) error {
	if t == nil {
		return domain.NewValidationError("track", nil, "track is required")
	}
	return p.s.gate.Do(func() error {
		if t.isClosed() {
			return domain.ErrEntityClosed
		}
		raw, err := p.s.raw()
		if err != nil {
			return err
		}
		return p.s.check("player_prefetch", p.s.native.PlayerPrefetch(raw, t.Handle()))
	})
}

// IsPlaying reports whether playback was started and not yet paused, stopped or ended.
func (p *Player) IsPlaying() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.playing
}

// Track returns the loaded track, or nil.
func (p *Player) Track() *Track {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.track
}

func (p *Player) setPlaying(playing bool) {
	p.mu.Lock()
	p.playing = playing
	p.mu.Unlock()
}
