package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	var buf bytes.Buffer
	l := NewZerologLoggerTo(&buf, "test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
	out := buf.String()
	assert.Contains(t, out, "\"component\":\"test\"")
	if strings.Count(out, "\n") != 5 {
		t.Fatalf("expected 5 log lines, got %d", strings.Count(out, "\n"))
	}
}
