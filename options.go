// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afifo

import "unsafe"

// Options configures FIFO creation.
type Options struct {
	// Capacity (rounds up to next power of 2)
	capacity int
}

// Builder creates FIFOs with fluent configuration.
//
// Example:
//
//	// Generic FIFO
//	q := afifo.Build[Event](afifo.New(1024))
//
//	// Capacity given as a depth exponent (capacity = 2^k)
//	q := afifo.Build[Event](afifo.New(2).Depth(10))
//
//	// Indirect FIFO for pool indices
//	q := afifo.New(8192).BuildIndirect()
type Builder struct {
	opts Options
}

// New creates a FIFO builder with the given capacity.
//
// Capacity rounds up to the next power of 2. For example, capacity=4
// results in actual capacity=4, capacity=1000 results in actual
// capacity=1024.
//
// Panics if capacity < 2.
func New(capacity int) *Builder {
	if capacity < 2 {
		panic("afifo: capacity must be >= 2")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// Depth sets the capacity as a power-of-two exponent: capacity = 2^k.
// Panics if k < 1.
func (b *Builder) Depth(k int) *Builder {
	if k < 1 {
		panic("afifo: depth exponent must be >= 1")
	}
	b.opts.capacity = 1 << k
	return b
}

// Build creates a generic FIFO[T].
func Build[T any](b *Builder) *FIFO[T] {
	return NewFIFO[T](b.opts.capacity)
}

// BuildIndirect creates a FIFO for uintptr values.
func (b *Builder) BuildIndirect() *FIFOIndirect {
	return NewFIFOIndirect(b.opts.capacity)
}

// BuildPtr creates a FIFO for unsafe.Pointer values.
func (b *Builder) BuildPtr() *FIFOPtr {
	return NewFIFOPtr(b.opts.capacity)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is cache line padding to prevent false sharing.
type pad [64]byte
