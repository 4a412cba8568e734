package monitoring

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// nil installs a no-op that must not reach the previous logger
	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestSetLogWriters(t *testing.T) {
	defer SetLogWriters(LogWriters{})

	var ops, diag bytes.Buffer
	SetLogWriters(LogWriters{Ops: &ops, Diag: &diag})

	Opsf("evicted %d records", 2)
	Diagf("no position fix at cycle %d", 17)
	Tracef("dropped: trace stream is disabled")

	if !strings.Contains(ops.String(), "evicted 2 records") {
		t.Errorf("ops stream missing message, got %q", ops.String())
	}
	if !strings.Contains(ops.String(), "[perception] ") {
		t.Errorf("ops stream missing prefix, got %q", ops.String())
	}
	if !strings.Contains(diag.String(), "no position fix at cycle 17") {
		t.Errorf("diag stream missing message, got %q", diag.String())
	}
	if strings.Contains(ops.String(), "cycle 17") {
		t.Error("diag message leaked into ops stream")
	}
}

func TestDisabledStreamsDoNotPanic(t *testing.T) {
	SetLogWriters(LogWriters{})
	Opsf("x")
	Diagf("x")
	Tracef("x")
}
