package log

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func withLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetDefault(New(&buf))
	t.Cleanup(func() { SetDefault(nil) })
	return &buf
}

func TestFormat(t *testing.T) {
	ts := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	got := Format(ts, LevelInfo, CatPlan, "submitted", "attempt", 2, "orphan")

	require.Equal(t, "2026-01-02T15:04:05 [INFO] [plan] submitted attempt=2 orphan=<missing>", got)
}

func TestWrite_RespectsMinLevel(t *testing.T) {
	buf := withLogger(t)
	SetMinLevel(LevelWarn)

	Debug(CatVideo, "hidden")
	Warn(CatVideo, "shown", "generation", 3)

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[WARN] [video] shown generation=3")
}

func TestWrite_Disabled(t *testing.T) {
	buf := withLogger(t)
	SetEnabled(false)

	Info(CatChat, "nothing")

	require.Empty(t, buf.String())
}

func TestErrorErr(t *testing.T) {
	buf := withLogger(t)

	ErrorErr(CatAPI, "call failed", errors.New("boom"), "path", "/x")
	ErrorErr(CatAPI, "nil error", nil)

	require.Contains(t, buf.String(), "call failed path=/x error=boom")
	require.Contains(t, buf.String(), "nil error error=<nil>")
}

func TestNoLogger_IsNoop(t *testing.T) {
	SetDefault(nil)
	require.NotPanics(t, func() { Info(CatUI, "dropped") })
	require.Nil(t, NewListener(context.Background()))
}

func TestListener_ReceivesEntries(t *testing.T) {
	withLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewListener(ctx)
	require.NotNil(t, l)

	Info(CatSession, "reset")

	msg := l.Listen()()
	entry, ok := msg.(Entry)
	require.True(t, ok)
	require.Contains(t, entry.Payload, "[session] reset")
}
