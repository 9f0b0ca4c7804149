package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", Debug},
		{"DEBUG", Debug},
		{" warn ", Warn},
		{"warning", Warn},
		{"error", Error},
		{"info", Info},
		{"", Info},
		{"verbose", Info},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestNopLoggerWith(t *testing.T) {
	l := NewNop()
	child := l.With("component", "test")
	assert.NotNil(t, child)
	child.Infof("value %d", 1)
	child.Infoln("a", "b")
	child.Infow("msg", "k", "v")
}
