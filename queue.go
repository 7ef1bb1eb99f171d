// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import (
	"code.hybscloud.com/lfq"
)

// segmentCapacity is the ring size of one queue segment.
const segmentCapacity = 32

// segment is one bounded ring in the queue chain.
type segment[T any] struct {
	ring lfq.SPSC[T]
	next *segment[T]
}

func newSegment[T any]() *segment[T] {
	s := &segment[T]{}
	s.ring.Init(segmentCapacity)
	return s
}

// queue is an unbounded FIFO built from a chain of bounded SPSC rings.
// Items are enqueued at tail and dequeued from head; a full tail ring
// links a fresh segment, an exhausted head ring is unlinked.
//
// queue is not safe for concurrent use on its own: Channel serializes
// every access under its mutex.
type queue[T any] struct {
	head *segment[T]
	tail *segment[T]
	n    int
}

func newQueue[T any]() *queue[T] {
	s := newSegment[T]()
	return &queue[T]{head: s, tail: s}
}

func (q *queue[T]) len() int {
	return q.n
}

// push appends v at the tail, growing the chain when the tail ring is full.
func (q *queue[T]) push(v T) {
	if err := q.tail.ring.Enqueue(&v); err != nil {
		s := newSegment[T]()
		_ = s.ring.Enqueue(&v)
		q.tail.next = s
		q.tail = s
	}
	q.n++
}

// pop removes the head item. ok is false when the queue is empty.
func (q *queue[T]) pop() (v T, ok bool) {
	if q.n == 0 {
		return v, false
	}
	for {
		item, err := q.head.ring.Dequeue()
		if err == nil {
			q.n--
			return item, true
		}
		// n > 0 guarantees a later segment holds the item.
		q.head = q.head.next
	}
}
