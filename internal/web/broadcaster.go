package web

import (
	"sync"

	"laptimer-ng/internal/view"
)

// SnapshotBroadcaster fans out display snapshots to any listeners (the /ws
// endpoint). It keeps the most recent value so new subscribers get an
// immediate sample. Slow subscribers drop frames rather than block the
// publisher.
type SnapshotBroadcaster struct {
	mu       sync.RWMutex
	subs     map[int]chan view.Snapshot
	nextID   int
	last     view.Snapshot
	haveLast bool
}

func NewSnapshotBroadcaster() *SnapshotBroadcaster {
	return &SnapshotBroadcaster{
		subs: make(map[int]chan view.Snapshot),
	}
}

func (b *SnapshotBroadcaster) Subscribe(buffer int) (int, <-chan view.Snapshot) {
	if b == nil {
		return 0, nil
	}
	if buffer <= 0 {
		buffer = 2
	}
	ch := make(chan view.Snapshot, buffer)
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	last := b.last
	have := b.haveLast
	b.mu.Unlock()
	if have {
		select {
		case ch <- last:
		default:
		}
	}
	return id, ch
}

func (b *SnapshotBroadcaster) Unsubscribe(id int) {
	if b == nil {
		return
	}
	b.mu.Lock()
	ch, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *SnapshotBroadcaster) Publish(snap view.Snapshot) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := make([]chan view.Snapshot, 0, len(b.subs))
	for _, ch := range b.subs {
		subs = append(subs, ch)
	}
	b.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- snap:
		default:
		}
	}
	b.mu.Lock()
	b.last = snap
	b.haveLast = true
	b.mu.Unlock()
}
