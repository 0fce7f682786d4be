package ecs

import (
	"time"

	"github.com/hexaengine/hexa/pkg/sequence"
)

// TimerHandle identifies a timer set on a World. The zero value is invalid.
type TimerHandle struct {
	id uint64
}

func (h TimerHandle) Valid() bool { return h.id != 0 }

type timer struct {
	handle TimerHandle
	delay  time.Duration
	loop   bool
	fn     func()
}

type timers struct {
	queue *sequence.PriorityQueue[*timer]
	items map[TimerHandle]*sequence.PriorityItem[*timer]
	next  uint64
}

func newTimers() timers {
	return timers{
		queue: sequence.NewPriorityQueue[*timer](),
		items: make(map[TimerHandle]*sequence.PriorityItem[*timer]),
	}
}

func (ts *timers) set(now, delay time.Duration, loop bool, fn func()) TimerHandle {
	ts.next++
	t := &timer{handle: TimerHandle{id: ts.next}, delay: delay, loop: loop, fn: fn}
	ts.items[t.handle] = ts.queue.Enqueue(t, int64(now+max(delay, 0)))
	return t.handle
}

func (ts *timers) clear(h TimerHandle) bool {
	item, ok := ts.items[h]
	if !ok {
		return false
	}
	delete(ts.items, h)
	return ts.queue.Remove(item)
}

func (ts *timers) reset() {
	ts.queue.Clear()
	clear(ts.items)
}

// fire runs every timer due at now in due order. A looping timer is due at
// most once per call.
func (ts *timers) fire(now time.Duration) {
	for {
		item, ok := ts.queue.Peek()
		if !ok || time.Duration(item.Priority) > now {
			return
		}
		ts.queue.DequeueItem()
		t := item.Value

		if t.loop {
			next := time.Duration(item.Priority) + t.delay
			if t.delay <= 0 {
				next = now + 1
			} else if next <= now {
				next = now + t.delay
			}
			ts.items[t.handle] = ts.queue.Enqueue(t, int64(next))
		} else {
			delete(ts.items, t.handle)
		}
		t.fn()
	}
}

func (ts *timers) len() int { return len(ts.items) }
