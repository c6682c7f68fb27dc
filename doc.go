// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package afifo provides a bounded single-producer single-consumer FIFO
// for two independently progressing execution contexts.
//
// The two contexts share no lock and no clock. Each side owns one
// position cursor — a counter one bit wider than the ring index, whose
// low bits address the ring and whose top bit counts laps — and never
// reads the other side's cursor directly. Cursors cross between the
// contexts through a publication protocol:
//
//   - The owner publishes its cursor Gray-encoded through an atomic
//     register using a release store.
//   - The remote side samples the register with an acquire load into a
//     two-stage pipeline advanced on its own steps; only the second
//     stage feeds the full/empty checks.
//
// The release/acquire pair carries the happens-before edges between
// "slot written" and "cursor visible", and between "cursor observed" and
// "slot read". The Gray encoding means a cursor advance flips exactly
// one bit of the register; under the Go memory model an atomic store
// already cannot tear, so the encoding is kept for protocol fidelity and
// for observers outside the atomic domain, not for in-process
// correctness. The two-stage pipeline gives every remote snapshot a
// bounded lag, which biases full and empty toward the safe side: a push
// may be refused shortly after the consumer freed a slot, a pop shortly
// after the producer filled one, but a slot still in flight is never
// granted.
//
// # Quick Start
//
//	q := afifo.NewFIFO[Event](1024)
//
//	// Producer context
//	ev := Event{...}
//	if err := q.Enqueue(&ev); err != nil {
//	    // FIFO full - apply backpressure
//	}
//
//	// Consumer context
//	ev, err := q.Dequeue()
//	if err == nil {
//	    process(ev)
//	}
//
// # Pipeline Pattern
//
//	// Stage 1 → FIFO → Stage 2
//	q := afifo.NewFIFO[Data](1024)
//
//	go func() { // Producer (Stage 1)
//	    backoff := iox.Backoff{}
//	    for data := range input {
//	        for q.Enqueue(&data) != nil {
//	            backoff.Wait()
//	        }
//	        backoff.Reset()
//	    }
//	}()
//
//	go func() { // Consumer (Stage 2)
//	    backoff := iox.Backoff{}
//	    for {
//	        data, err := q.Dequeue()
//	        if err != nil {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        process(data)
//	    }
//	}()
//
// # FIFO Variants
//
// Three flavors are available for different payloads:
//
//	NewFIFO[T]       - Generic type-safe FIFO for any type
//	NewFIFOIndirect  - FIFO for uintptr values (pool indices, handles)
//	NewFIFOPtr       - FIFO for unsafe.Pointer (zero-copy pointer passing)
//
// All three share the identical cursor publication protocol; they differ
// only in how the payload crosses.
//
// # Capacity
//
// Capacity rounds up to the next power of 2, minimum 2:
//
//	q := afifo.NewFIFO[int](3)     // Actual capacity: 4
//	q := afifo.NewFIFO[int](1000)  // Actual capacity: 1024
//	q := afifo.NewDepth[int](10)   // Capacity given as exponent: 1024
//
// Length is intentionally not provided: each side observes the other
// only through a bounded-staleness snapshot, so no single count is
// simultaneously accurate for both contexts.
//
// # Error Handling
//
// Operations return [ErrWouldBlock] when they cannot proceed. This error
// is sourced from [code.hybscloud.com/iox] for ecosystem consistency and
// is a control flow signal, never a failure:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !afifo.IsWouldBlock(err) {
//	        return err // Unexpected error
//	    }
//	    backoff.Wait()
//	}
//
// There are no fatal error states in the package.
//
// # Thread Safety
//
// Exactly one goroutine may act as the producer and exactly one as the
// consumer. The producer alone calls Enqueue and Full; the consumer
// alone calls Dequeue and Empty. Violating the partition (two producers,
// Full from the consumer side) corrupts the sampling pipelines and is
// undefined behavior.
//
// Reset additionally requires both contexts to be quiesced. The
// precondition is documented, not checked; the caller enforces it
// externally.
//
// # Staleness
//
// A cursor advance becomes visible to the remote side's trusted snapshot
// only after two of the remote side's sampling steps. The lag is
// deliberate headroom inherited from the publication protocol, not a
// defect: it is what keeps the full/empty derivation provably
// conservative. When a trusted snapshot reports would-block, the
// operation advances the pipeline two steps and re-evaluates exactly
// once before refusing, so a single-context sequence of operations
// always observes its own effects.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives but
// cannot observe happens-before relationships established through
// atomix memory orderings on separate variables. The concurrent tests
// are correct but excluded from race builds via //go:build !race.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering.
package afifo
