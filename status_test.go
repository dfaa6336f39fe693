package camerastream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "OK", LevelOK.String())
	assert.Equal(t, "Warn", LevelWarn.String())
	assert.Equal(t, "Error", LevelError.String())
	assert.Equal(t, "unknown", Level(42).String())
}

func TestStatusMap(t *testing.T) {
	m := newStatusMap()

	_, ok := m.get(StatusImage)
	assert.False(t, ok)

	m.set(StatusImage, LevelWarn, "No Image received")
	st, ok := m.get(StatusImage)
	require.True(t, ok)
	assert.Equal(t, LevelWarn, st.Level)
	assert.Equal(t, "No Image received", st.Message)

	// Overwrite in place.
	m.set(StatusImage, LevelOK, "OK")
	st, _ = m.get(StatusImage)
	assert.Equal(t, LevelOK, st.Level)

	m.set(StatusTime, LevelError, "boom")
	snap := m.snapshot()
	assert.Len(t, snap, 2)

	// Snapshot is a copy, not a view.
	snap[StatusTime] = Status{Level: LevelOK, Message: "mutated"}
	st, _ = m.get(StatusTime)
	assert.Equal(t, LevelError, st.Level)

	m.clear()
	assert.Empty(t, m.snapshot())
}
