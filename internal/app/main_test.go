package app

import (
	"testing"

	"github.com/tejashwikalptaru/gospot/internal/testutil"
)

func TestMain(m *testing.M) {
	testutil.VerifyMain(m)
}
