// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afifo

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// FIFO is a single-producer single-consumer bounded FIFO for two
// independently progressing execution contexts.
//
// Each side owns one position cursor outright and never reads the other
// side's cursor directly: cursors cross between contexts Gray-encoded
// through a published register (release store, acquire load) and are
// observed through a two-stage sampling pipeline. Full and empty are
// derived from the local cursor and the sampled remote cursor, and are
// conservative under snapshot staleness: a push may be refused shortly
// after the consumer freed a slot, a pop shortly after the producer
// filled one, but neither side is ever granted a slot still in flight.
//
// Memory: O(capacity) plus one published register and sampler per side.
type FIFO[T any] struct {
	_     pad
	rptr  uint64  // Consumer cursor: position of the next read
	rsamp sampler // Consumer's sampled view of wpub
	_     pad
	wptr  uint64  // Producer cursor: position of the next write
	wsamp sampler // Producer's sampled view of rpub
	_     pad
	wpub  atomix.Uint64 // Producer's published cursor (Gray-coded)
	_     pad
	rpub  atomix.Uint64 // Consumer's published cursor (Gray-coded)
	_     pad
	buffer []T
	mask   uint64 // Ring index mask: capacity-1
	lap    uint64 // Lap bit: capacity
	wrap   uint64 // Cursor mask: 2*capacity-1
}

// NewFIFO creates a new FIFO.
// Capacity rounds up to the next power of 2.
func NewFIFO[T any](capacity int) *FIFO[T] {
	if capacity < 2 {
		panic("afifo: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	return &FIFO[T]{
		buffer: make([]T, n),
		mask:   n - 1,
		lap:    n,
		wrap:   2*n - 1,
	}
}

// NewDepth creates a new FIFO with capacity 2^k.
// Panics if k < 1.
func NewDepth[T any](k int) *FIFO[T] {
	if k < 1 {
		panic("afifo: depth exponent must be >= 1")
	}
	return NewFIFO[T](1 << k)
}

// Enqueue adds an element to the FIFO (producer only).
// The element is copied into the ring before the cursor advance is
// published, so the consumer can never observe the slot half-written.
// Returns ErrWouldBlock if the FIFO is full.
func (q *FIFO[T]) Enqueue(elem *T) error {
	w := q.wptr
	if fullAt(w, q.wsamp.snapshot(), q.lap) {
		if fullAt(w, q.wsamp.refresh(&q.rpub), q.lap) {
			return ErrWouldBlock
		}
	}

	q.buffer[w&q.mask] = *elem
	q.wptr = advance(w, q.wrap)
	publish(&q.wpub, q.wptr)
	return nil
}

// Dequeue removes and returns an element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the FIFO is empty.
func (q *FIFO[T]) Dequeue() (T, error) {
	r := q.rptr
	if emptyAt(r, q.rsamp.snapshot()) {
		if emptyAt(r, q.rsamp.refresh(&q.wpub)) {
			var zero T
			return zero, ErrWouldBlock
		}
	}

	elem := q.buffer[r&q.mask]
	var zero T
	q.buffer[r&q.mask] = zero
	q.rptr = advance(r, q.wrap)
	publish(&q.rpub, q.rptr)
	return elem, nil
}

// Full reports whether the next Enqueue would be refused (producer only).
// Conservative: may stay true briefly after the consumer frees a slot.
func (q *FIFO[T]) Full() bool {
	if !fullAt(q.wptr, q.wsamp.snapshot(), q.lap) {
		return false
	}
	return fullAt(q.wptr, q.wsamp.refresh(&q.rpub), q.lap)
}

// Empty reports whether the next Dequeue would be refused (consumer only).
// Conservative: may stay true briefly after the producer fills a slot.
func (q *FIFO[T]) Empty() bool {
	if !emptyAt(q.rptr, q.rsamp.snapshot()) {
		return false
	}
	return emptyAt(q.rptr, q.rsamp.refresh(&q.wpub))
}

// Reset returns both cursors, both published registers, and both
// sampling pipelines to zero and clears the ring.
//
// Precondition: both contexts are quiesced. Calling Reset concurrently
// with Enqueue or Dequeue is undefined behavior; the caller enforces the
// quiescence externally.
func (q *FIFO[T]) Reset() {
	q.wptr, q.rptr = 0, 0
	q.wsamp, q.rsamp = sampler{}, sampler{}
	q.wpub.StoreRelease(0)
	q.rpub.StoreRelease(0)
	clear(q.buffer)
}

// Cap returns the FIFO capacity.
func (q *FIFO[T]) Cap() int {
	return int(q.mask + 1)
}

// FIFOIndirect is a FIFO for uintptr values.
type FIFOIndirect struct {
	_     pad
	rptr  uint64
	rsamp sampler
	_     pad
	wptr  uint64
	wsamp sampler
	_     pad
	wpub  atomix.Uint64
	_     pad
	rpub  atomix.Uint64
	_     pad
	buffer []uintptr
	mask   uint64
	lap    uint64
	wrap   uint64
}

// NewFIFOIndirect creates a new FIFO for uintptr values.
// Capacity rounds up to the next power of 2.
func NewFIFOIndirect(capacity int) *FIFOIndirect {
	if capacity < 2 {
		panic("afifo: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	return &FIFOIndirect{
		buffer: make([]uintptr, n),
		mask:   n - 1,
		lap:    n,
		wrap:   2*n - 1,
	}
}

// Enqueue adds an element (producer only).
func (q *FIFOIndirect) Enqueue(elem uintptr) error {
	w := q.wptr
	if fullAt(w, q.wsamp.snapshot(), q.lap) {
		if fullAt(w, q.wsamp.refresh(&q.rpub), q.lap) {
			return ErrWouldBlock
		}
	}

	q.buffer[w&q.mask] = elem
	q.wptr = advance(w, q.wrap)
	publish(&q.wpub, q.wptr)
	return nil
}

// Dequeue removes and returns an element (consumer only).
func (q *FIFOIndirect) Dequeue() (uintptr, error) {
	r := q.rptr
	if emptyAt(r, q.rsamp.snapshot()) {
		if emptyAt(r, q.rsamp.refresh(&q.wpub)) {
			return 0, ErrWouldBlock
		}
	}

	elem := q.buffer[r&q.mask]
	q.rptr = advance(r, q.wrap)
	publish(&q.rpub, q.rptr)
	return elem, nil
}

// Full reports whether the next Enqueue would be refused (producer only).
func (q *FIFOIndirect) Full() bool {
	if !fullAt(q.wptr, q.wsamp.snapshot(), q.lap) {
		return false
	}
	return fullAt(q.wptr, q.wsamp.refresh(&q.rpub), q.lap)
}

// Empty reports whether the next Dequeue would be refused (consumer only).
func (q *FIFOIndirect) Empty() bool {
	if !emptyAt(q.rptr, q.rsamp.snapshot()) {
		return false
	}
	return emptyAt(q.rptr, q.rsamp.refresh(&q.wpub))
}

// Reset returns the FIFO to its initial empty state.
// Precondition: both contexts are quiesced; see FIFO.Reset.
func (q *FIFOIndirect) Reset() {
	q.wptr, q.rptr = 0, 0
	q.wsamp, q.rsamp = sampler{}, sampler{}
	q.wpub.StoreRelease(0)
	q.rpub.StoreRelease(0)
	clear(q.buffer)
}

// Cap returns the FIFO capacity.
func (q *FIFOIndirect) Cap() int {
	return int(q.mask + 1)
}

// FIFOPtr is a FIFO for unsafe.Pointer values.
// Useful for zero-copy pointer passing between contexts.
type FIFOPtr struct {
	_     pad
	rptr  uint64
	rsamp sampler
	_     pad
	wptr  uint64
	wsamp sampler
	_     pad
	wpub  atomix.Uint64
	_     pad
	rpub  atomix.Uint64
	_     pad
	buffer []unsafe.Pointer
	mask   uint64
	lap    uint64
	wrap   uint64
}

// NewFIFOPtr creates a new FIFO for unsafe.Pointer values.
// Capacity rounds up to the next power of 2.
func NewFIFOPtr(capacity int) *FIFOPtr {
	if capacity < 2 {
		panic("afifo: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	return &FIFOPtr{
		buffer: make([]unsafe.Pointer, n),
		mask:   n - 1,
		lap:    n,
		wrap:   2*n - 1,
	}
}

// Enqueue adds an element (producer only).
func (q *FIFOPtr) Enqueue(elem unsafe.Pointer) error {
	w := q.wptr
	if fullAt(w, q.wsamp.snapshot(), q.lap) {
		if fullAt(w, q.wsamp.refresh(&q.rpub), q.lap) {
			return ErrWouldBlock
		}
	}

	// Pointer arithmetic avoids slice bounds checking in hot path.
	// Equivalent to q.buffer[w&q.mask] = elem
	*(*unsafe.Pointer)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(q.buffer)), int(w&q.mask)*ptrSize)) = elem
	q.wptr = advance(w, q.wrap)
	publish(&q.wpub, q.wptr)
	return nil
}

// Dequeue removes and returns an element (consumer only).
func (q *FIFOPtr) Dequeue() (unsafe.Pointer, error) {
	r := q.rptr
	if emptyAt(r, q.rsamp.snapshot()) {
		if emptyAt(r, q.rsamp.refresh(&q.wpub)) {
			return nil, ErrWouldBlock
		}
	}

	// Pointer arithmetic avoids slice bounds checking in hot path.
	// Equivalent to elem := q.buffer[r&q.mask]
	elem := *(*unsafe.Pointer)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(q.buffer)), int(r&q.mask)*ptrSize))
	q.rptr = advance(r, q.wrap)
	publish(&q.rpub, q.rptr)
	return elem, nil
}

// Full reports whether the next Enqueue would be refused (producer only).
func (q *FIFOPtr) Full() bool {
	if !fullAt(q.wptr, q.wsamp.snapshot(), q.lap) {
		return false
	}
	return fullAt(q.wptr, q.wsamp.refresh(&q.rpub), q.lap)
}

// Empty reports whether the next Dequeue would be refused (consumer only).
func (q *FIFOPtr) Empty() bool {
	if !emptyAt(q.rptr, q.rsamp.snapshot()) {
		return false
	}
	return emptyAt(q.rptr, q.rsamp.refresh(&q.wpub))
}

// Reset returns the FIFO to its initial empty state and drops the held
// pointers. Precondition: both contexts are quiesced; see FIFO.Reset.
func (q *FIFOPtr) Reset() {
	q.wptr, q.rptr = 0, 0
	q.wsamp, q.rsamp = sampler{}, sampler{}
	q.wpub.StoreRelease(0)
	q.rpub.StoreRelease(0)
	clear(q.buffer)
}

// Cap returns the FIFO capacity.
func (q *FIFOPtr) Cap() int {
	return int(q.mask + 1)
}
