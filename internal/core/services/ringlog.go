package services

import (
	"sync"

	"github.com/strata-ai/strata/internal/core/domain"
)

// RingLog is a fixed-capacity in-memory decision buffer. Once full, each
// append overwrites the oldest entry. Losing entries is acceptable; the log
// exists for observability, not correctness.
type RingLog struct {
	mu   sync.Mutex
	buf  []domain.RoutingDecision
	next int
	full bool
}

func NewRingLog(capacity int) *RingLog {
	if capacity < 1 {
		capacity = 1
	}
	return &RingLog{buf: make([]domain.RoutingDecision, capacity)}
}

func (l *RingLog) Append(d domain.RoutingDecision) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf[l.next] = d
	l.next++
	if l.next == len(l.buf) {
		l.next = 0
		l.full = true
	}
}

// Recent returns up to limit decisions, newest first. limit <= 0 returns
// everything buffered.
func (l *RingLog) Recent(limit int) []domain.RoutingDecision {
	l.mu.Lock()
	defer l.mu.Unlock()

	size := l.next
	if l.full {
		size = len(l.buf)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]domain.RoutingDecision, 0, limit)
	for i := 1; i <= limit; i++ {
		out = append(out, l.buf[(l.next-i+len(l.buf))%len(l.buf)])
	}
	return out
}
