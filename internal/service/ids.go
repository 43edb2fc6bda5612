package service

import (
	"fmt"
	"sync"
	"time"
)

// idGenerator builds "<prefix><sep><epochMillis>" ids. Two calls within the
// same millisecond get consecutive millisecond values so ids never repeat
// within a process.
type idGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func newIDGenerator(now func() time.Time) *idGenerator {
	return &idGenerator{now: now}
}

func (g *idGenerator) next(prefix, sep string) (string, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.now()
	ms := t.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return fmt.Sprintf("%s%s%d", prefix, sep, ms), t
}
