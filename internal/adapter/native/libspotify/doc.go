// Package libspotify binds the native libspotify client library through cgo.
//
// The bindings are only compiled with the libspotify build tag:
//
//	go build -tags libspotify ./...
//
// Without the tag New reports domain.ErrNativeUnavailable so the rest of the
// module builds and tests on machines that do not have the library installed.
package libspotify

// APIVersion is the api.h version the bindings are written against.
const APIVersion = 12
