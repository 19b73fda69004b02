package world

import "sync"

// dirtyQueue is a FIFO of chunk indices awaiting a rebuild. Deduplication is done by
// the caller through ChunkMesh.dirty.
type dirtyQueue struct {
	mu     sync.Mutex
	items  []int
	signal chan struct{}
}

func newDirtyQueue() *dirtyQueue {
	return &dirtyQueue{signal: make(chan struct{}, 1)}
}

func (q *dirtyQueue) push(i int) {
	q.mu.Lock()
	q.items = append(q.items, i)
	q.mu.Unlock()
	q.notify()
}

func (q *dirtyQueue) pop() (int, bool) {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return 0, false
	}
	i := q.items[0]
	q.items = q.items[1:]
	more := len(q.items) > 0
	q.mu.Unlock()
	// Wake another idle worker while work remains.
	if more {
		q.notify()
	}
	return i, true
}

func (q *dirtyQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *dirtyQueue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
