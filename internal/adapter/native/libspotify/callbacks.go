//go:build libspotify && cgo

package libspotify

/*
#include "shim.h"
*/
import "C"
import (
	"unsafe"

	pointer "github.com/mattn/go-pointer"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// The functions below are the Go side of the trampolines in shim.c. They run on
// library threads or synchronously inside a library call and forward to the
// callbacks registered with SessionCreate.

// callbacksOf returns the callbacks of the library owning s, nil while the
// session is being torn down.
func callbacksOf(s *C.sp_session) ports.SessionCallbacks {
	token := C.sp_session_userdata(s)
	if token == nil {
		return nil
	}
	l, ok := pointer.Restore(token).(*Library)
	if !ok || l == nil {
		return nil
	}
	return l.sessionCallbacks()
}

func sessionHandle(s *C.sp_session) domain.Handle {
	return domain.Handle(uintptr(unsafe.Pointer(s)))
}

//export goLoggedIn
func goLoggedIn(s *C.sp_session, e C.sp_error) {
	if cb := callbacksOf(s); cb != nil {
		cb.LoggedIn(sessionHandle(s), domain.Result(e))
	}
}

//export goLoggedOut
func goLoggedOut(s *C.sp_session) {
	if cb := callbacksOf(s); cb != nil {
		cb.LoggedOut(sessionHandle(s))
	}
}

//export goMetadataUpdated
func goMetadataUpdated(s *C.sp_session) {
	if cb := callbacksOf(s); cb != nil {
		cb.MetadataUpdated(sessionHandle(s))
	}
}

//export goConnectionError
func goConnectionError(s *C.sp_session, e C.sp_error) {
	if cb := callbacksOf(s); cb != nil {
		cb.ConnectionError(sessionHandle(s), domain.Result(e))
	}
}

//export goMessageToUser
func goMessageToUser(s *C.sp_session, m *C.char) {
	if cb := callbacksOf(s); cb != nil {
		cb.MessageToUser(sessionHandle(s), C.GoString(m))
	}
}

//export goNotifyMainThread
func goNotifyMainThread(s *C.sp_session) {
	if cb := callbacksOf(s); cb != nil {
		cb.NotifyMainThread(sessionHandle(s))
	}
}

//export goMusicDelivery
func goMusicDelivery(s *C.sp_session, sampleType C.sp_sampletype, rate, channels C.int, frames unsafe.Pointer, numFrames C.int) C.int {
	cb := callbacksOf(s)
	if cb == nil {
		return numFrames
	}
	format := domain.AudioFormat{
		SampleType: domain.SampleType(sampleType),
		SampleRate: int(rate),
		Channels:   int(channels),
	}
	var data []byte
	if n := int(numFrames) * format.BytesPerFrame(); n > 0 && frames != nil {
		data = C.GoBytes(frames, C.int(n))
	}
	return C.int(cb.MusicDelivery(sessionHandle(s), format, data, int(numFrames)))
}

//export goPlayTokenLost
func goPlayTokenLost(s *C.sp_session) {
	if cb := callbacksOf(s); cb != nil {
		cb.PlayTokenLost(sessionHandle(s))
	}
}

//export goLogMessage
func goLogMessage(s *C.sp_session, m *C.char) {
	if cb := callbacksOf(s); cb != nil {
		cb.LogMessage(sessionHandle(s), C.GoString(m))
	}
}

//export goEndOfTrack
func goEndOfTrack(s *C.sp_session) {
	if cb := callbacksOf(s); cb != nil {
		cb.EndOfTrack(sessionHandle(s))
	}
}

//export goStreamingError
func goStreamingError(s *C.sp_session, e C.sp_error) {
	if cb := callbacksOf(s); cb != nil {
		cb.StreamingError(sessionHandle(s), domain.Result(e))
	}
}

//export goUserInfoUpdated
func goUserInfoUpdated(s *C.sp_session) {
	if cb := callbacksOf(s); cb != nil {
		cb.UserInfoUpdated(sessionHandle(s))
	}
}

//export goStartPlayback
func goStartPlayback(s *C.sp_session) {
	if cb := callbacksOf(s); cb != nil {
		cb.StartPlayback(sessionHandle(s))
	}
}

//export goStopPlayback
func goStopPlayback(s *C.sp_session) {
	if cb := callbacksOf(s); cb != nil {
		cb.StopPlayback(sessionHandle(s))
	}
}

//export goGetAudioBufferStats
func goGetAudioBufferStats(s *C.sp_session, samples, stutter *C.int) {
	*samples, *stutter = 0, 0
	if cb := callbacksOf(s); cb != nil {
		stats := cb.GetAudioBufferStats(sessionHandle(s))
		*samples = C.int(stats.Samples)
		*stutter = C.int(stats.Stutter)
	}
}

//export goOfflineStatusUpdated
func goOfflineStatusUpdated(s *C.sp_session) {
	if cb := callbacksOf(s); cb != nil {
		cb.OfflineStatusUpdated(sessionHandle(s))
	}
}

//export goOfflineError
func goOfflineError(s *C.sp_session, e C.sp_error) {
	if cb := callbacksOf(s); cb != nil {
		cb.OfflineError(sessionHandle(s), domain.Result(e))
	}
}

//export goCredentialsBlobUpdated
func goCredentialsBlobUpdated(s *C.sp_session, blob *C.char) {
	if cb := callbacksOf(s); cb != nil {
		cb.CredentialsBlobUpdated(sessionHandle(s), C.GoString(blob))
	}
}

//export goConnectionStateUpdated
func goConnectionStateUpdated(s *C.sp_session) {
	if cb := callbacksOf(s); cb != nil {
		cb.ConnectionStateUpdated(sessionHandle(s))
	}
}

//export goScrobbleError
func goScrobbleError(s *C.sp_session, e C.sp_error) {
	if cb := callbacksOf(s); cb != nil {
		cb.ScrobbleError(sessionHandle(s), domain.Result(e))
	}
}

//export goPrivateSessionModeChanged
func goPrivateSessionModeChanged(s *C.sp_session, private C.bool) {
	if cb := callbacksOf(s); cb != nil {
		cb.PrivateSessionModeChanged(sessionHandle(s), bool(private))
	}
}

// goBrowseComplete fires once per browse or search. The token holds the
// ports.BrowseCallback and is released here.
//
//export goBrowseComplete
func goBrowseComplete(h C.uintptr_t, token unsafe.Pointer) {
	done, ok := pointer.Restore(token).(ports.BrowseCallback)
	pointer.Unref(token)
	if ok && done != nil {
		done(domain.Handle(h))
	}
}

// goImageLoaded turns an image load into a metadata update so image entities
// re-evaluate like every other entity.
//
//export goImageLoaded
func goImageLoaded(_ C.uintptr_t, token unsafe.Pointer) {
	l, ok := pointer.Restore(token).(*Library)
	if !ok || l == nil {
		return
	}
	if cb, s := l.sessionCallbacks(), l.sessionHandle(); cb != nil && s != domain.InvalidHandle {
		cb.MetadataUpdated(s)
	}
}
