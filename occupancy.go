// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afifo

// Cursors are position counters one bit wider than the ring index. The
// low bits address the ring; the top bit counts laps. The extra bit is
// what keeps "producer a full lap ahead" distinguishable from "consumer
// caught up" when the index bits coincide.

// advance moves cursor c forward one slot, wrapping at twice the
// capacity. The natural wrap at the cursor width keeps the lap bit
// self-correcting.
func advance(c, wrap uint64) uint64 {
	return (c + 1) & wrap
}

// fullAt reports whether a write at cursor w would land on the slot the
// consumer, last observed at r, has not yet freed: index bits equal, lap
// bits one apart. lap is the capacity, i.e. the cursor's top bit.
func fullAt(w, r, lap uint64) bool {
	return w^r == lap
}

// emptyAt reports whether the consumer at cursor r has drained
// everything the producer, last observed at w, has published: all bits
// equal, lap bit included.
func emptyAt(r, w uint64) bool {
	return r == w
}
