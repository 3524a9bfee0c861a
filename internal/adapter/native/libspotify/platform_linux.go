//go:build libspotify && cgo && linux

package libspotify

/*
#cgo pkg-config: libspotify
#include "shim.h"
*/
import "C"

// Platform-specific constants for Linux
const (
	platformName = "linux"
	libraryName  = "libspotify.so.12"
)
