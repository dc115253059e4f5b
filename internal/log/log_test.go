package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	. "github.com/onsi/gomega"
)

func TestNewDropsTime(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer
	New(&buf, slog.LevelInfo).Info("hello", "count", 3)

	var line map[string]any
	g.Expect(json.Unmarshal(buf.Bytes(), &line)).To(Succeed())
	g.Expect(line).NotTo(HaveKey(slog.TimeKey))
	g.Expect(line).To(HaveKeyWithValue("msg", "hello"))
	g.Expect(line).To(HaveKeyWithValue("count", BeNumerically("==", 3)))
}

func TestNewRespectsLevel(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)
	logger.Info("quiet")
	g.Expect(buf.Len()).To(BeZero())

	logger.Warn("loud")
	g.Expect(buf.String()).To(ContainSubstring("loud"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		level slog.Level
		ok    bool
	}{
		{"", slog.LevelInfo, true},
		{"DEBUG", slog.LevelDebug, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			g := NewWithT(t)
			level, ok := ParseLevel(tt.in)
			g.Expect(ok).To(Equal(tt.ok))
			g.Expect(level).To(Equal(tt.level))
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	g := NewWithT(t)

	g.Expect(FromContextOrDiscard(context.Background())).To(BeIdenticalTo(discardLogger))

	logger := New(&bytes.Buffer{}, slog.LevelInfo)
	ctx := NewContext(context.Background(), logger)
	g.Expect(FromContextOrDiscard(ctx)).To(BeIdenticalTo(logger))
}
