// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afifo

import "unsafe"

// Buffer is the combined producer-consumer interface for a bounded
// single-producer single-consumer FIFO.
//
// Buffer provides non-blocking Enqueue and Dequeue operations. Both
// return ErrWouldBlock when they cannot proceed (FIFO full or empty);
// the result is the only backpressure signal, and the retry policy
// belongs to the caller.
//
// The interface intentionally excludes length: the two sides observe
// each other only through bounded-staleness snapshots, so no single
// count is simultaneously accurate for both. Track counts in
// application logic when needed.
//
// Example:
//
//	q := afifo.NewFIFO[int](1024)
//
//	// Producer context
//	val := 42
//	if err := q.Enqueue(&val); err != nil {
//	    // Handle full FIFO
//	}
//
//	// Consumer context
//	elem, err := q.Dequeue()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Buffer[T any] interface {
	Producer[T]
	Consumer[T]
	Cap() int
}

// Producer is the interface for the producing context.
//
// Exactly one goroutine may act as the producer. The element is passed
// by pointer to avoid copying large structs; the FIFO stores a copy of
// the pointed-to value, so the original can be modified after Enqueue
// returns.
type Producer[T any] interface {
	// Enqueue adds an element to the FIFO (non-blocking).
	// The element is copied into the ring before the position cursor is
	// published, so the consumer never observes a half-written slot.
	// Returns nil on success, ErrWouldBlock if the FIFO is full.
	Enqueue(elem *T) error
}

// Consumer is the interface for the consuming context.
//
// Exactly one goroutine may act as the consumer. The element is returned
// by value; the vacated slot is cleared to allow garbage collection of
// referenced objects.
type Consumer[T any] interface {
	// Dequeue removes and returns the oldest element (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the FIFO is empty.
	Dequeue() (T, error)
}

// BufferIndirect is the combined interface for uintptr FIFOs.
//
// BufferIndirect passes indices or handles instead of full objects,
// which suits buffer pools and other index-based structures.
//
// Example (free list):
//
//	pool := make([][]byte, 1024)
//	freeList := afifo.NewFIFOIndirect(1024)
//
//	for i := range pool {
//	    pool[i] = make([]byte, 4096)
//	    freeList.Enqueue(uintptr(i))
//	}
//
//	idx, _ := freeList.Dequeue()
//	buf := pool[idx]
type BufferIndirect interface {
	ProducerIndirect
	ConsumerIndirect
	Cap() int
}

// ProducerIndirect enqueues uintptr values (non-blocking, one goroutine).
type ProducerIndirect interface {
	// Enqueue adds an element to the FIFO.
	// Returns ErrWouldBlock immediately if the FIFO is full.
	Enqueue(elem uintptr) error
}

// ConsumerIndirect dequeues uintptr values (non-blocking, one goroutine).
type ConsumerIndirect interface {
	// Dequeue removes and returns the oldest element.
	// Returns (0, ErrWouldBlock) immediately if the FIFO is empty.
	Dequeue() (uintptr, error)
}

// BufferPtr is the combined interface for unsafe.Pointer FIFOs.
//
// BufferPtr passes pointers without copying, enabling zero-copy object
// transfer. Ownership semantics: the producer transfers ownership to
// the consumer; after enqueueing, the producer must not access the
// object.
type BufferPtr interface {
	ProducerPtr
	ConsumerPtr
	Cap() int
}

// ProducerPtr enqueues unsafe.Pointer values (non-blocking, one goroutine).
type ProducerPtr interface {
	// Enqueue adds an element to the FIFO.
	// Returns ErrWouldBlock immediately if the FIFO is full.
	Enqueue(elem unsafe.Pointer) error
}

// ConsumerPtr dequeues unsafe.Pointer values (non-blocking, one goroutine).
type ConsumerPtr interface {
	// Dequeue removes and returns the oldest element.
	// Returns (nil, ErrWouldBlock) immediately if the FIFO is empty.
	Dequeue() (unsafe.Pointer, error)
}

// Resetter returns a FIFO to its initial empty state.
//
// All FIFO variants implement Resetter. Reset must only be called when
// both contexts are quiesced — no Enqueue or Dequeue may be in flight.
// The precondition is the caller's to enforce; violating it is undefined
// behavior, not a reported error.
type Resetter interface {
	// Reset zeroes both position cursors, both published registers,
	// and both sampling pipelines, and clears the ring storage.
	Reset()
}
