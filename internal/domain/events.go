// Package domain defines events for the event-driven architecture.
// Every native session callback is republished on the event bus as one typed event.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Session callbacks
	EventLoggedIn                  EventType = "session.logged_in"
	EventLoggedOut                 EventType = "session.logged_out"
	EventMetadataUpdated           EventType = "session.metadata_updated"
	EventConnectionError           EventType = "session.connection_error"
	EventMessageToUser             EventType = "session.message_to_user"
	EventNotifyMainThread          EventType = "session.notify_main_thread"
	EventLogMessage                EventType = "session.log_message"
	EventUserInfoUpdated           EventType = "session.userinfo_updated"
	EventOfflineStatusUpdated      EventType = "session.offline_status_updated"
	EventOfflineError              EventType = "session.offline_error"
	EventCredentialsBlobUpdated    EventType = "session.credentials_blob_updated"
	EventConnectionStateUpdated    EventType = "session.connection_state_updated"
	EventScrobbleError             EventType = "session.scrobble_error"
	EventPrivateSessionModeChanged EventType = "session.private_session_mode_changed"

	// Player callbacks
	EventMusicDelivery        EventType = "player.music_delivery"
	EventPlayTokenLost        EventType = "player.play_token_lost"
	EventEndOfTrack           EventType = "player.end_of_track"
	EventStreamingError       EventType = "player.streaming_error"
	EventStartPlayback        EventType = "player.start_playback"
	EventStopPlayback         EventType = "player.stop_playback"
	EventAudioBufferStatsRead EventType = "player.audio_buffer_stats"

	// Entity lifecycle
	EventEntityLoaded    EventType = "entity.loaded"
	EventBrowseCompleted EventType = "browse.completed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// BaseEvent provides common event functionality.
// All concrete events should embed this struct.
type BaseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.timestamp
}

// NewBaseEvent creates a new base event with the current timestamp.
func NewBaseEvent() BaseEvent {
	return BaseEvent{timestamp: time.Now()}
}
