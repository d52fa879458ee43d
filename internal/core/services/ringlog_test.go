package services

import (
	"strconv"
	"sync"
	"testing"

	"github.com/strata-ai/strata/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingLog_NewestFirst(t *testing.T) {
	l := NewRingLog(4)
	for i := 0; i < 3; i++ {
		l.Append(domain.RoutingDecision{ID: strconv.Itoa(i)})
	}

	recent := l.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "2", recent[0].ID)
	assert.Equal(t, "0", recent[2].ID)

	assert.Len(t, l.Recent(2), 2)
	assert.Equal(t, "2", l.Recent(2)[0].ID)
}

func TestRingLog_OverwritesOldest(t *testing.T) {
	l := NewRingLog(3)
	for i := 0; i < 5; i++ {
		l.Append(domain.RoutingDecision{ID: strconv.Itoa(i)})
	}

	recent := l.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "4", recent[0].ID)
	assert.Equal(t, "2", recent[2].ID)
}

func TestRingLog_ConcurrentAppends(t *testing.T) {
	l := NewRingLog(128)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 16; j++ {
				l.Append(domain.RoutingDecision{ID: "x"})
			}
		}()
	}
	wg.Wait()

	assert.Len(t, l.Recent(0), 128)
}
