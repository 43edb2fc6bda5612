package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{"email", "a@b.gov", "password", "hunter2", "GovID", "X-1", "dangling"})

	assert.Equal(t, []interface{}{"email", "a@b.gov", "password", "[REDACTED]", "GovID", "[REDACTED]", "dangling"}, out)
}

func TestLogger_RedactsCredentials(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Warn("login rejected", "email", "a@b.gov", "password", "hunter2")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "a@b.gov", fields["email"])
		assert.Equal(t, "[REDACTED]", fields["password"])
	}
}
