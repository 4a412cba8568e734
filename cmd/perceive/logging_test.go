package main

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldsense/perception/internal/monitoring"
)

func resetLogging(t *testing.T) {
	t.Cleanup(func() {
		monitoring.SetLogWriters(monitoring.LogWriters{})
		monitoring.SetLogger(log.Printf)
	})
}

func TestSetupLoggingRoutesMessages(t *testing.T) {
	resetLogging(t)
	var buf bytes.Buffer
	setupLogging(&buf, false, false, false)

	monitoring.Logf("applied %d frames", 3)
	monitoring.Opsf("store failed")
	monitoring.Diagf("hidden diag")

	out := buf.String()
	assert.Contains(t, out, "applied 3 frames")
	assert.Contains(t, out, "store failed")
	assert.NotContains(t, out, "hidden diag")
}

func TestSetupLoggingQuiet(t *testing.T) {
	resetLogging(t)
	var buf bytes.Buffer
	setupLogging(&buf, true, false, true)

	monitoring.Logf("summary")
	monitoring.Diagf("diag on")

	assert.NotContains(t, buf.String(), "summary")
	assert.Contains(t, buf.String(), "diag on")
}
