package fake

import (
	"time"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// PlayerLoad loads a track for playback. The track must be loaded.
func (l *Library) PlayerLoad(s, track domain.Handle) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s != l.session || s == domain.InvalidHandle {
		return domain.ResultInvalidIndata
	}
	if r := l.failure("player_load"); r != domain.ResultOk {
		return r
	}
	obj, ok := l.objects[track]
	if !ok || obj.kind != domain.KindTrack || obj.refs <= 0 {
		return domain.ResultInvalidIndata
	}
	if !obj.loaded {
		return domain.ResultIsLoading
	}
	if info, ok := obj.info.(domain.TrackInfo); ok && info.Availability != domain.TrackAvailable {
		return domain.ResultTrackNotPlayable
	}

	l.loadedTrack = track
	l.playing = false
	l.position = 0
	return domain.ResultOk
}

// PlayerPlay starts or pauses the loaded track.
func (l *Library) PlayerPlay(s domain.Handle, play bool) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s != l.session || s == domain.InvalidHandle {
		return domain.ResultInvalidIndata
	}
	if r := l.failure("player_play"); r != domain.ResultOk {
		return r
	}
	if l.loadedTrack == domain.InvalidHandle {
		return domain.ResultInvalidIndata
	}
	if play && !l.playing {
		l.enqueue(func(cb ports.SessionCallbacks, s domain.Handle) { cb.StartPlayback(s) })
	}
	if !play && l.playing {
		l.enqueue(func(cb ports.SessionCallbacks, s domain.Handle) { cb.StopPlayback(s) })
	}
	l.playing = play
	return domain.ResultOk
}

// PlayerSeek moves the playback position of the loaded track.
func (l *Library) PlayerSeek(s domain.Handle, offset time.Duration) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s != l.session || s == domain.InvalidHandle {
		return domain.ResultInvalidIndata
	}
	if l.loadedTrack == domain.InvalidHandle || offset < 0 {
		return domain.ResultInvalidIndata
	}
	l.position = offset
	return domain.ResultOk
}

// PlayerUnload stops playback and unloads the track.
func (l *Library) PlayerUnload(s domain.Handle) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s != l.session || s == domain.InvalidHandle {
		return domain.ResultInvalidIndata
	}
	l.loadedTrack = domain.InvalidHandle
	l.playing = false
	l.position = 0
	return domain.ResultOk
}

// PlayerPrefetch remembers the track to be played next.
func (l *Library) PlayerPrefetch(s, track domain.Handle) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s != l.session || s == domain.InvalidHandle {
		return domain.ResultInvalidIndata
	}
	if obj, ok := l.objects[track]; !ok || obj.kind != domain.KindTrack {
		return domain.ResultInvalidIndata
	}
	l.prefetched = track
	return domain.ResultOk
}

// PlayerState returns the loaded track, the play flag and the position.
func (l *Library) PlayerState() (domain.Handle, bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadedTrack, l.playing, l.position
}

// Prefetched returns the last prefetched track.
func (l *Library) Prefetched() domain.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.prefetched
}
