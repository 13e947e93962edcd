package goSession

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateHubSubscriptionClose(t *testing.T) {
	h := newStateHub(nil)
	sub := h.add(2, State{Loading: true})
	require.Equal(t, 1, h.len())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, h.len())

	st, ok := <-sub.C
	require.True(t, ok, "queued snapshot survives close")
	assert.True(t, st.Loading)
	_, ok = <-sub.C
	assert.False(t, ok)

	h.publish(State{Version: 1})
}

func TestStateHubConcurrentPublishNeverBlocks(t *testing.T) {
	var drops atomic.Int64
	h := newStateHub(func() { drops.Add(1) })
	sub := h.add(1, State{})

	const publishers = 8
	const perP = 200

	var wg sync.WaitGroup
	wg.Add(publishers)
	for i := 0; i < publishers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perP; j++ {
				h.publish(State{Version: 1})
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		for range sub.C {
		}
		close(done)
	}()

	wg.Wait()
	h.close()
	<-done

	assert.Positive(t, drops.Load())
}
