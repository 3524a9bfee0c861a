//go:build libspotify && cgo && darwin

package libspotify

/*
#cgo CFLAGS: -F/Library/Frameworks
#cgo LDFLAGS: -F/Library/Frameworks -framework libspotify
#include "shim.h"
*/
import "C"

// Platform-specific constants for macOS
const (
	platformName = "darwin"
	libraryName  = "libspotify.framework"
)
