package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	SetLevel("debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetLevel("error")
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())

	SetLevel("bogus")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetOutputCapturesLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Error("correction failed", errors.New("boom"))
	Infof("tone %s", "Formal")

	out := buf.String()
	assert.Contains(t, out, "correction failed")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "tone Formal")
}

func TestSetOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "typozap.log")
	require.NoError(t, SetOutputFile(path))

	Warn("written to file")
	CloseLogFile()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "***", Redact("abc"))
	assert.Equal(t, "AIzaSy...", Redact("AIzaSyD-very-secret"))
}
