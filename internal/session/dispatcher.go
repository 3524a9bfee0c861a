package session

import (
	"log/slog"
	"sync/atomic"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// dispatcher receives the native session callbacks. Every slot verifies the session
// handle, calls the CallbackHandler, updates session state and publishes one event,
// in that order. Panics are recovered here and never unwind into native code.
//
// Slots that return a value answer with a neutral one when the handle does not
// match or the handler panics: all frames consumed, empty buffer stats.
type dispatcher struct {
	s      *Session
	logger *slog.Logger
	raw    atomic.Uintptr
}

func newDispatcher(s *Session) *dispatcher {
	return &dispatcher{
		s:      s,
		logger: s.logger.With(slog.String("component", "dispatcher")),
	}
}

// bind sets the session handle callbacks must carry.
func (d *dispatcher) bind(h domain.Handle) {
	d.raw.Store(uintptr(h))
}

// unbind makes every later callback a no-op.
func (d *dispatcher) unbind() {
	d.raw.Store(uintptr(domain.InvalidHandle))
}

func (d *dispatcher) matches(h domain.Handle, slot string) bool {
	bound := domain.Handle(d.raw.Load())
	if h == domain.InvalidHandle || h != bound {
		d.logger.Debug("callback for foreign session ignored", slog.String("slot", slot))
		return false
	}
	return true
}

// recover must be deferred directly by every slot.
func (d *dispatcher) recover(slot string) {
	if r := recover(); r != nil {
		d.logger.Error("session callback panicked",
			slog.String("slot", slot),
			slog.Any("panic", r))
	}
}

// inGate runs fn under the session gate. Callbacks delivered during a native call
// re-enter; callbacks from library threads wait for the current holder.
func (d *dispatcher) inGate(fn func()) {
	d.s.gate.Run(fn)
}

func (d *dispatcher) LoggedIn(h domain.Handle, r domain.Result) {
	defer d.recover("logged_in")
	if !d.matches(h, "logged_in") {
		return
	}

	err := d.s.check("login", r)
	d.s.handler.LoggedIn(d.s, err)

	var user *User
	d.inGate(func() {
		d.s.refreshConnection()
		if err == nil {
			user = d.s.refreshUser()
		}
	})
	if err != nil {
		d.logger.Warn("login failed", slog.Any("error", err))
	}

	d.s.bus.Publish(LoggedInEvent{SessionEvent: newSessionEvent(d.s), User: user, Err: err})
}

func (d *dispatcher) LoggedOut(h domain.Handle) {
	defer d.recover("logged_out")
	if !d.matches(h, "logged_out") {
		return
	}

	d.s.handler.LoggedOut(d.s)
	d.inGate(func() {
		d.s.dropUser()
		d.s.refreshConnection()
	})

	d.s.bus.Publish(LoggedOutEvent{SessionEvent: newSessionEvent(d.s)})
}

func (d *dispatcher) MetadataUpdated(h domain.Handle) {
	defer d.recover("metadata_updated")
	if !d.matches(h, "metadata_updated") {
		return
	}

	d.s.handler.MetadataUpdated(d.s)
	d.s.bus.Publish(MetadataUpdatedEvent{SessionEvent: newSessionEvent(d.s)})
}

func (d *dispatcher) ConnectionError(h domain.Handle, r domain.Result) {
	defer d.recover("connection_error")
	if !d.matches(h, "connection_error") {
		return
	}

	err := d.s.check("connection", r)
	d.s.handler.ConnectionError(d.s, err)
	d.inGate(func() { d.s.refreshConnection() })

	d.s.bus.Publish(ConnectionErrorEvent{SessionEvent: newSessionEvent(d.s), Err: err})
}

func (d *dispatcher) MessageToUser(h domain.Handle, message string) {
	defer d.recover("message_to_user")
	if !d.matches(h, "message_to_user") {
		return
	}

	d.s.handler.MessageToUser(d.s, message)
	d.s.bus.Publish(MessageToUserEvent{SessionEvent: newSessionEvent(d.s), Message: message})
}

func (d *dispatcher) NotifyMainThread(h domain.Handle) {
	defer d.recover("notify_main_thread")
	if !d.matches(h, "notify_main_thread") {
		return
	}

	d.s.handler.NotifyMainThread(d.s)
	d.s.needsProcessing.Store(true)
	d.s.bus.Publish(NotifyMainThreadEvent{SessionEvent: newSessionEvent(d.s)})
}

func (d *dispatcher) MusicDelivery(h domain.Handle, format domain.AudioFormat, frames []byte, numFrames int) (consumed int) {
	consumed = numFrames
	defer d.recover("music_delivery")
	if !d.matches(h, "music_delivery") {
		return numFrames
	}

	consumed = d.s.handler.MusicDelivery(d.s, format, frames, numFrames)
	d.s.bus.Publish(MusicDeliveryEvent{
		SessionEvent: newSessionEvent(d.s),
		Format:       format,
		Frames:       frames,
		NumFrames:    numFrames,
		Consumed:     consumed,
	})
	return consumed
}

func (d *dispatcher) PlayTokenLost(h domain.Handle) {
	defer d.recover("play_token_lost")
	if !d.matches(h, "play_token_lost") {
		return
	}

	d.s.handler.PlayTokenLost(d.s)
	d.s.player.setPlaying(false)
	d.s.bus.Publish(PlayTokenLostEvent{SessionEvent: newSessionEvent(d.s)})
}

func (d *dispatcher) LogMessage(h domain.Handle, message string) {
	defer d.recover("log_message")
	if !d.matches(h, "log_message") {
		return
	}

	d.s.handler.LogMessage(d.s, message)
	d.s.bus.Publish(LogMessageEvent{SessionEvent: newSessionEvent(d.s), Message: message})
}

func (d *dispatcher) EndOfTrack(h domain.Handle) {
	defer d.recover("end_of_track")
	if !d.matches(h, "end_of_track") {
		return
	}

	d.s.handler.EndOfTrack(d.s)
	d.s.player.setPlaying(false)
	d.s.bus.Publish(EndOfTrackEvent{SessionEvent: newSessionEvent(d.s)})
}

func (d *dispatcher) StreamingError(h domain.Handle, r domain.Result) {
	defer d.recover("streaming_error")
	if !d.matches(h, "streaming_error") {
		return
	}

	err := d.s.check("streaming", r)
	d.s.handler.StreamingError(d.s, err)
	d.s.player.setPlaying(false)
	d.s.bus.Publish(StreamingErrorEvent{SessionEvent: newSessionEvent(d.s), Err: err})
}

func (d *dispatcher) UserInfoUpdated(h domain.Handle) {
	defer d.recover("userinfo_updated")
	if !d.matches(h, "userinfo_updated") {
		return
	}

	d.s.handler.UserInfoUpdated(d.s)
	if u := d.s.User(); u != nil {
		u.evaluate()
	}
	d.s.bus.Publish(UserInfoUpdatedEvent{SessionEvent: newSessionEvent(d.s)})
}

func (d *dispatcher) StartPlayback(h domain.Handle) {
	defer d.recover("start_playback")
	if !d.matches(h, "start_playback") {
		return
	}

	d.s.handler.StartPlayback(d.s)
	d.s.bus.Publish(StartPlaybackEvent{SessionEvent: newSessionEvent(d.s)})
}

func (d *dispatcher) StopPlayback(h domain.Handle) {
	defer d.recover("stop_playback")
	if !d.matches(h, "stop_playback") {
		return
	}

	d.s.handler.StopPlayback(d.s)
	d.s.bus.Publish(StopPlaybackEvent{SessionEvent: newSessionEvent(d.s)})
}

func (d *dispatcher) GetAudioBufferStats(h domain.Handle) (stats domain.AudioBufferStats) {
	defer d.recover("get_audio_buffer_stats")
	if !d.matches(h, "get_audio_buffer_stats") {
		return domain.AudioBufferStats{}
	}

	stats = d.s.handler.GetAudioBufferStats(d.s)
	d.s.bus.Publish(AudioBufferStatsEvent{SessionEvent: newSessionEvent(d.s), Stats: stats})
	return stats
}

func (d *dispatcher) OfflineStatusUpdated(h domain.Handle) {
	defer d.recover("offline_status_updated")
	if !d.matches(h, "offline_status_updated") {
		return
	}

	d.s.handler.OfflineStatusUpdated(d.s)

	var status domain.OfflineSyncStatus
	var syncing bool
	d.inGate(func() { status, syncing = d.s.native.OfflineSyncStatus(h) })

	d.s.bus.Publish(OfflineStatusUpdatedEvent{
		SessionEvent: newSessionEvent(d.s),
		Status:       status,
		Syncing:      syncing,
	})
}

func (d *dispatcher) OfflineError(h domain.Handle, r domain.Result) {
	defer d.recover("offline_error")
	if !d.matches(h, "offline_error") {
		return
	}

	err := d.s.check("offline", r)
	d.s.handler.OfflineError(d.s, err)
	d.s.bus.Publish(OfflineErrorEvent{SessionEvent: newSessionEvent(d.s), Err: err})
}

func (d *dispatcher) CredentialsBlobUpdated(h domain.Handle, blob string) {
	defer d.recover("credentials_blob_updated")
	if !d.matches(h, "credentials_blob_updated") {
		return
	}

	d.s.handler.CredentialsBlobUpdated(d.s, blob)

	d.s.mu.Lock()
	d.s.blob = blob
	d.s.mu.Unlock()

	d.s.bus.Publish(CredentialsBlobUpdatedEvent{SessionEvent: newSessionEvent(d.s), Blob: blob})
}

func (d *dispatcher) ConnectionStateUpdated(h domain.Handle) {
	defer d.recover("connectionstate_updated")
	if !d.matches(h, "connectionstate_updated") {
		return
	}

	d.s.handler.ConnectionStateUpdated(d.s)

	var state domain.ConnectionState
	d.inGate(func() { state = d.s.refreshConnection() })

	d.s.bus.Publish(ConnectionStateUpdatedEvent{SessionEvent: newSessionEvent(d.s), State: state})
}

func (d *dispatcher) ScrobbleError(h domain.Handle, r domain.Result) {
	defer d.recover("scrobble_error")
	if !d.matches(h, "scrobble_error") {
		return
	}

	err := d.s.check("scrobble", r)
	d.s.handler.ScrobbleError(d.s, err)
	d.s.bus.Publish(ScrobbleErrorEvent{SessionEvent: newSessionEvent(d.s), Err: err})
}

func (d *dispatcher) PrivateSessionModeChanged(h domain.Handle, private bool) {
	defer d.recover("private_session_mode_changed")
	if !d.matches(h, "private_session_mode_changed") {
		return
	}

	d.s.handler.PrivateSessionModeChanged(d.s, private)

	d.s.mu.Lock()
	d.s.private = private
	d.s.mu.Unlock()

	d.s.bus.Publish(PrivateSessionModeChangedEvent{SessionEvent: newSessionEvent(d.s), Private: private})
}

// Verify that dispatcher implements the SessionCallbacks interface
var _ ports.SessionCallbacks = (*dispatcher)(nil)
