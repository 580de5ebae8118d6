package binding

import "sync"

// Queue is an unbounded FIFO of requests with one producer (the event
// thread) and one consumer (the render thread). Neither side ever blocks
// waiting for the other.
type Queue struct {
	mu    sync.Mutex
	items []Request
	head  int
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends r.
func (q *Queue) Push(r Request) {
	q.mu.Lock()
	q.items = append(q.items, r)
	q.mu.Unlock()
}

// Pop removes the oldest request. ok is false when the queue is empty.
func (q *Queue) Pop() (r Request, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == len(q.items) {
		return Request{}, false
	}
	r = q.items[q.head]
	q.items[q.head] = Request{}
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return r, true
}

// Len is the number of queued requests.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// snapshot copies the queued requests without consuming them.
func (q *Queue) snapshot() []Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Request(nil), q.items[q.head:]...)
}

// Discard drops everything queued and returns how many requests were
// dropped.
func (q *Queue) Discard() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items) - q.head
	q.items = nil
	q.head = 0
	return n
}
