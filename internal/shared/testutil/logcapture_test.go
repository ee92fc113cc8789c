package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureHandler(t *testing.T) {
	logger, h := NewTestLogger(nil)

	child := logger.With(slog.String("component", "pipeline"))
	child.Info("Skipping file", slog.String("file", "a.csv"))
	logger.Warn("other")

	records := h.Records()
	require.Len(t, records, 2)
	assert.Equal(t, slog.LevelInfo, records[0].Level)
	assert.Equal(t, map[string]any{"component": "pipeline", "file": "a.csv"}, records[0].Attrs)
	assert.Empty(t, records[1].Attrs, "parent logger is unaffected by With")

	assert.Len(t, h.Find("Skipping"), 1)
	assert.Empty(t, h.Find("missing"))

	AssertLogAttr(t, h, "Skipping file", "file", "a.csv")
	AssertNoErrors(t, h)
}
