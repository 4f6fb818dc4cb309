package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleLogger_TagsModuleID(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, slog.LevelDebug)

	l := NewModuleLogger(base, "SendScalar0")
	l.Status("Module execution starting")
	l.Warning("careful")
	l.Error("boom", "error", errors.New("bad"))

	out := buf.String()
	assert.Contains(t, out, "module=SendScalar0")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "err=bad")
	assert.NotContains(t, out, "error=bad")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestModuleLogger_NilBase(t *testing.T) {
	l := NewModuleLogger(nil, "x")
	l.Status("ignored")
}
