package session

import (
	"github.com/tejashwikalptaru/gospot/internal/domain"
)

// CallbackHandler is the strategy a Session invokes for every native notification,
// before session state is updated and before the matching event is published.
//
// Methods run on the goroutine the native library delivers the callback on. The
// dispatcher does not take the gate around them. Callbacks delivered from inside a
// native call, usually ProcessEvents, run while that caller holds the gate, so
// native calls re-enter it. MusicDelivery, NotifyMainThread, LogMessage and
// GetAudioBufferStats may instead arrive on library threads that hold nothing;
// those methods must not call Session or entity methods and must return quickly.
// Errors are the translated native result codes, nil for success.
//
//go:generate mockgen -destination=mocks/mock_handler.go -package=mocks . CallbackHandler
type CallbackHandler interface {
	LoggedIn(s *Session, err error)
	LoggedOut(s *Session)
	MetadataUpdated(s *Session)
	ConnectionError(s *Session, err error)
	MessageToUser(s *Session, message string)
	NotifyMainThread(s *Session)

	// MusicDelivery receives interleaved PCM and returns the number of frames consumed.
	// It must not block.
	MusicDelivery(s *Session, format domain.AudioFormat, frames []byte, numFrames int) int
	PlayTokenLost(s *Session)
	LogMessage(s *Session, message string)
	EndOfTrack(s *Session)
	StreamingError(s *Session, err error)
	UserInfoUpdated(s *Session)
	StartPlayback(s *Session)
	StopPlayback(s *Session)

	// GetAudioBufferStats reports the host's audio buffer state. It must not block.
	GetAudioBufferStats(s *Session) domain.AudioBufferStats
	OfflineStatusUpdated(s *Session)
	OfflineError(s *Session, err error)
	CredentialsBlobUpdated(s *Session, blob string)
	ConnectionStateUpdated(s *Session)
	ScrobbleError(s *Session, err error)
	PrivateSessionModeChanged(s *Session, private bool)
}

// NullHandler does nothing. It discards delivered audio and reports empty buffers.
// Embed it to override only the notifications of interest.
type NullHandler struct{}

func (NullHandler) LoggedIn(*Session, error) {}
func (NullHandler) LoggedOut(*Session) {}
func (NullHandler) MetadataUpdated(*Session) {}
func (NullHandler) ConnectionError(*Session, error) {}
func (NullHandler) MessageToUser(*Session, string) {}
func (NullHandler) NotifyMainThread(*Session) {}
func (NullHandler) PlayTokenLost(*Session) {}
func (NullHandler) LogMessage(*Session, string) {}
func (NullHandler) EndOfTrack(*Session) {}
func (NullHandler) StreamingError(*Session, error) {}
func (NullHandler) UserInfoUpdated(*Session) {}
func (NullHandler) StartPlayback(*Session) {}
func (NullHandler) StopPlayback(*Session) {}
func (NullHandler) OfflineStatusUpdated(*Session) {}
func (NullHandler) OfflineError(*Session, error) {}
func (NullHandler) CredentialsBlobUpdated(*Session, string) {}
func (NullHandler) ConnectionStateUpdated(*Session) {}
func (NullHandler) ScrobbleError(*Session, error) {}
func (NullHandler) PrivateSessionModeChanged(*Session, bool) {}

// MusicDelivery consumes every frame.
func (NullHandler) MusicDelivery(_ *Session, _ domain.AudioFormat, _ []byte, numFrames int) int {
	return numFrames
}

// GetAudioBufferStats reports an empty buffer.
func (NullHandler) GetAudioBufferStats(*Session) domain.AudioBufferStats {
	return domain.AudioBufferStats{}
}

var _ CallbackHandler = NullHandler{}
