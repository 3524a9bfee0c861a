package session

import (
	"github.com/tejashwikalptaru/gospot/internal/domain"
)

// SessionEvent is embedded by every event raised for a native session callback.
type SessionEvent struct {
	domain.BaseEvent
	Session *Session
}

func newSessionEvent(s *Session) SessionEvent {
	return SessionEvent{BaseEvent: domain.NewBaseEvent(), Session: s}
}

// Source returns the session the event was raised for.
func (e SessionEvent) Source() *Session {
	return e.Session
}

// LoggedInEvent is published when a login attempt finishes.
// User is the logged in user on success; Err is the translated result otherwise.
type LoggedInEvent struct {
	SessionEvent
	User *User
	Err  error
}

// Type returns the event type.
func (e LoggedInEvent) Type() domain.EventType { return domain.EventLoggedIn }

// LoggedOutEvent is published when the session has logged out.
type LoggedOutEvent struct{ SessionEvent }

// Type returns the event type.
func (e LoggedOutEvent) Type() domain.EventType { return domain.EventLoggedOut }

// MetadataUpdatedEvent is published when metadata of any object may have changed.
// Every live entity re-evaluates its load state on it.
type MetadataUpdatedEvent struct{ SessionEvent }

// Type returns the event type.
func (e MetadataUpdatedEvent) Type() domain.EventType { return domain.EventMetadataUpdated }

// ConnectionErrorEvent is published when the connection to the service fails.
type ConnectionErrorEvent struct {
	SessionEvent
	Err error
}

// Type returns the event type.
func (e ConnectionErrorEvent) Type() domain.EventType { return domain.EventConnectionError }

// MessageToUserEvent carries a message the service wants shown to the user.
type MessageToUserEvent struct {
	SessionEvent
	Message string
}

// Type returns the event type.
func (e MessageToUserEvent) Type() domain.EventType { return domain.EventMessageToUser }

// NotifyMainThreadEvent is published when ProcessEvents should be called soon.
type NotifyMainThreadEvent struct{ SessionEvent }

// Type returns the event type.
func (e NotifyMainThreadEvent) Type() domain.EventType { return domain.EventNotifyMainThread }

// MusicDeliveryEvent is published after the handler has been offered audio.
// Frames is only valid for the duration of the delivery.
type MusicDeliveryEvent struct {
	SessionEvent
	Format    domain.AudioFormat
	Frames    []byte
	NumFrames int
	Consumed  int
}

// Type returns the event type.
func (e MusicDeliveryEvent) Type() domain.EventType { return domain.EventMusicDelivery }

// PlayTokenLostEvent is published when playback was paused because the account
// started playing elsewhere.
type PlayTokenLostEvent struct{ SessionEvent }

// Type returns the event type.
func (e PlayTokenLostEvent) Type() domain.EventType { return domain.EventPlayTokenLost }

// LogMessageEvent carries one line of native library logging.
type LogMessageEvent struct {
	SessionEvent
	Message string
}

// Type returns the event type.
func (e LogMessageEvent) Type() domain.EventType { return domain.EventLogMessage }

// EndOfTrackEvent is published when the loaded track has been fully delivered.
type EndOfTrackEvent struct{ SessionEvent }

// Type returns the event type.
func (e EndOfTrackEvent) Type() domain.EventType { return domain.EventEndOfTrack }

// StreamingErrorEvent is published when streaming the loaded track fails.
type StreamingErrorEvent struct {
	SessionEvent
	Err error
}

// Type returns the event type.
func (e StreamingErrorEvent) Type() domain.EventType { return domain.EventStreamingError }

// UserInfoUpdatedEvent is published when user information changed.
type UserInfoUpdatedEvent struct{ SessionEvent }

// Type returns the event type.
func (e UserInfoUpdatedEvent) Type() domain.EventType { return domain.EventUserInfoUpdated }

// StartPlaybackEvent is published when the library starts delivering audio.
type StartPlaybackEvent struct{ SessionEvent }

// Type returns the event type.
func (e StartPlaybackEvent) Type() domain.EventType { return domain.EventStartPlayback }

// StopPlaybackEvent is published when the library stops delivering audio.
type StopPlaybackEvent struct{ SessionEvent }

// Type returns the event type.
func (e StopPlaybackEvent) Type() domain.EventType { return domain.EventStopPlayback }

// AudioBufferStatsEvent is published after the handler reported buffer statistics.
type AudioBufferStatsEvent struct {
	SessionEvent
	Stats domain.AudioBufferStats
}

// Type returns the event type.
func (e AudioBufferStatsEvent) Type() domain.EventType { return domain.EventAudioBufferStatsRead }

// OfflineStatusUpdatedEvent carries the offline synchronization status.
// Syncing is false and Status is zero when no synchronization is in progress.
type OfflineStatusUpdatedEvent struct {
	SessionEvent
	Status  domain.OfflineSyncStatus
	Syncing bool
}

// Type returns the event type.
func (e OfflineStatusUpdatedEvent) Type() domain.EventType { return domain.EventOfflineStatusUpdated }

// OfflineErrorEvent is published when offline synchronization fails.
type OfflineErrorEvent struct {
	SessionEvent
	Err error
}

// Type returns the event type.
func (e OfflineErrorEvent) Type() domain.EventType { return domain.EventOfflineError }

// CredentialsBlobUpdatedEvent carries a blob that can replace the password on the next login.
type CredentialsBlobUpdatedEvent struct {
	SessionEvent
	Blob string
}

// Type returns the event type.
func (e CredentialsBlobUpdatedEvent) Type() domain.EventType {
	return domain.EventCredentialsBlobUpdated
}

// ConnectionStateUpdatedEvent carries the new connection state.
type ConnectionStateUpdatedEvent struct {
	SessionEvent
	State domain.ConnectionState
}

// Type returns the event type.
func (e ConnectionStateUpdatedEvent) Type() domain.EventType {
	return domain.EventConnectionStateUpdated
}

// ScrobbleErrorEvent is published when scrobbling fails.
type ScrobbleErrorEvent struct {
	SessionEvent
	Err error
}

// Type returns the event type.
func (e ScrobbleErrorEvent) Type() domain.EventType { return domain.EventScrobbleError }

// PrivateSessionModeChangedEvent carries the new private session mode.
type PrivateSessionModeChangedEvent struct {
	SessionEvent
	Private bool
}

// Type returns the event type.
func (e PrivateSessionModeChangedEvent) Type() domain.EventType {
	return domain.EventPrivateSessionModeChanged
}

// EntityLoadedEvent is the completion signal of an entity. It is published each
// time an evaluation finds the entity loaded, and after a successful extended
// metadata browse (Extended set).
type EntityLoadedEvent struct {
	SessionEvent
	Entity   Entity
	Extended bool
}

// Type returns the event type.
func (e EntityLoadedEvent) Type() domain.EventType { return domain.EventEntityLoaded }

// BrowseCompletedEvent is published when a browse operation reaches a terminal outcome.
type BrowseCompletedEvent struct {
	SessionEvent
	Operation *BrowseOperation
}

// Type returns the event type.
func (e BrowseCompletedEvent) Type() domain.EventType { return domain.EventBrowseCompleted }
