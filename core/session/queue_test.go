package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialQueueOrder(t *testing.T) {
	q := newSerialQueue()
	defer q.Close()

	var mu sync.Mutex
	var got []int
	for i := 0; i < 100; i++ {
		i := i
		require.True(t, q.Async(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	q.Sync(func() {})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestSerialQueueNeverOverlaps(t *testing.T) {
	q := newSerialQueue()
	defer q.Close()

	var running, overlaps int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go q.Async(func() {
			defer wg.Done()
			running++
			if running > 1 {
				overlaps++
			}
			time.Sleep(time.Millisecond)
			running--
		})
	}
	wg.Wait()
	q.Sync(func() {
		assert.Zero(t, overlaps)
	})
}

func TestSerialQueueAfter(t *testing.T) {
	q := newSerialQueue()
	defer q.Close()

	fired := make(chan time.Time, 1)
	start := time.Now()
	q.After(30*time.Millisecond, func() { fired <- time.Now() })

	select {
	case at := <-fired:
		assert.GreaterOrEqual(t, at.Sub(start), 30*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}

	cancelled := make(chan struct{}, 1)
	timer := q.After(20*time.Millisecond, func() { cancelled <- struct{}{} })
	timer.Stop()
	select {
	case <-cancelled:
		t.Fatal("stopped timer fired")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestSerialQueueClose(t *testing.T) {
	q := newSerialQueue()
	ran := make(chan struct{})
	q.Async(func() { close(ran) })
	q.Close()

	select {
	case <-ran:
	default:
		t.Fatal("queued work was dropped on close")
	}
	assert.False(t, q.Async(func() {}))
	assert.False(t, q.Sync(func() {}))
}

func TestNotifier(t *testing.T) {
	n := NewNotifier()
	a, unsubA := n.Subscribe()
	b, unsubB := n.Subscribe()
	defer unsubB()

	nt := Notification{Type: NotificationFailed, Status: StatusDisconnected}
	n.Publish(nt)
	assert.Equal(t, nt, <-a)
	assert.Equal(t, nt, <-b)

	unsubA()
	unsubA()
	_, open := <-a
	assert.False(t, open)

	// a slow subscriber never blocks the publisher
	for i := 0; i < subscriberBuffer*2; i++ {
		n.Publish(Notification{Type: NotificationReinstalled})
	}
	assert.Len(t, b, subscriberBuffer)
}

func TestStateStatus(t *testing.T) {
	cases := map[State]Status{
		Idle:           StatusDisconnected,
		Resolving:      StatusConnecting,
		LinkConnecting: StatusConnecting,
		Negotiating:    StatusConnecting,
		Connected:      StatusConnected,
		Reconnecting:   StatusConnecting,
		Disconnecting:  StatusDisconnecting,
		Failed:         StatusDisconnected,
	}
	for state, status := range cases {
		assert.Equal(t, status, state.Status(), state.String())
	}
	assert.Equal(t, "INVALID", State(99).String())
	assert.Equal(t, "failed", NotificationFailed.String())
}
