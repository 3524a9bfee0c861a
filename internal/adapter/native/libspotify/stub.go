//go:build !libspotify || !cgo

package libspotify

import (
	"log/slog"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// New reports that this build carries no native bindings.
func New(logger *slog.Logger) (ports.Native, error) {
	logger.Debug("native bindings not compiled in", slog.String("build_tag", "libspotify"))
	return nil, domain.ErrNativeUnavailable
}
