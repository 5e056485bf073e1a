package binutil

import (
	"path/filepath"
	"testing"

	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/stretchr/testify/assert"
)

func TestLogOutputs(t *testing.T) {
	assert.Equal(t, []string{"world.log", "stderr"}, LogOutputs("world.log", true))
	assert.Equal(t, []string{"stderr"}, LogOutputs("", true))
	assert.Empty(t, LogOutputs("", false))
}

func TestSetupGWLog(t *testing.T) {
	defer gwlog.SetOutput([]string{"stderr"})
	defer gwlog.SetLevel(gwlog.DebugLevel)

	SetupGWLog("test", "warn", filepath.Join(t.TempDir(), "test.log"), false)
	assert.Equal(t, gwlog.WarnLevel, gwlog.GetLevel())
}
