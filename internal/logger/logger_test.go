package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects output for the duration of a test.
func capture(t *testing.T, v bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(v)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Debug("test message %s", "arg")

	assert.Equal(t, "[DEBUG] test message arg\n", buf.String())
}

func TestDebugAndInfo_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Section("hidden")

	assert.Zero(t, buf.Len())
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Analysis")

	assert.Equal(t, "\n=== Analysis ===\n", buf.String())
}

func TestInfo(t *testing.T) {
	buf := capture(t, true)

	Info("stored %d cases", 42)

	assert.Equal(t, "[INFO] stored 42 cases\n", buf.String())
}

func TestWarnAndError_AlwaysShown(t *testing.T) {
	buf := capture(t, false)

	Warn("embedding failed: %s", "quota")
	Error("fetch failed")

	assert.Equal(t, "[WARN] embedding failed: quota\n[ERROR] fetch failed\n", buf.String())
}
