package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeed_DeliversInOrder(t *testing.T) {
	f := NewFeed[int]()

	var got []string
	f.Subscribe(func(v int) { got = append(got, "a") })
	f.Subscribe(func(v int) { got = append(got, "b") })

	f.Publish(1)

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestFeed_Unsubscribe(t *testing.T) {
	f := NewFeed[string]()

	var count int
	unsub := f.Subscribe(func(string) { count++ })
	f.Publish("x")
	unsub()
	unsub() // second call is a no-op
	f.Publish("y")

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, f.Len())
}

func TestFeed_UnsubscribeMiddleKeepsOthers(t *testing.T) {
	f := NewFeed[int]()

	var got []int
	f.Subscribe(func(v int) { got = append(got, 1) })
	unsub := f.Subscribe(func(v int) { got = append(got, 2) })
	f.Subscribe(func(v int) { got = append(got, 3) })

	unsub()
	f.Publish(0)

	assert.Equal(t, []int{1, 3}, got)
}

func TestFeed_HandlerMaySubscribe(t *testing.T) {
	f := NewFeed[int]()

	f.Subscribe(func(int) {
		f.Subscribe(func(int) {})
	})

	f.Publish(0) // must not deadlock
	assert.Equal(t, 2, f.Len())
}

func TestFeed_ConcurrentPublish(t *testing.T) {
	f := NewFeed[int]()

	var mu sync.Mutex
	sum := 0
	f.Subscribe(func(v int) {
		mu.Lock()
		sum += v
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f.Publish(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, sum)
}

func TestSourceFunc(t *testing.T) {
	var registered Handler[int]
	src := SourceFunc[int](func(h Handler[int]) func() {
		registered = h
		return func() { registered = nil }
	})

	var got int
	unsub := src.Subscribe(func(v int) { got = v })
	registered(7)
	unsub()

	assert.Equal(t, 7, got)
	assert.Nil(t, registered)
}
