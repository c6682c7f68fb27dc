// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afifo_test

import (
	"testing"
	"time"
	"unsafe"

	"code.hybscloud.com/afifo"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
	"github.com/eapache/queue"
	"github.com/valyala/fastrand"
)

// ptrOf returns unsafe.Pointer to v.
func ptrOf[T any](v *T) unsafe.Pointer {
	return unsafe.Pointer(v)
}

// =============================================================================
// Two-Context Correctness
//
// The producer and consumer run on separate goroutines with no relative
// rate guarantee; fastrand injects uncorrelated cadence jitter on both
// sides. Order and loss checks run against the full transferred sequence.
// =============================================================================

// TestFIFOTwoContextTransfer streams a long sequence through a small
// FIFO and verifies strict order with no loss or duplication.
func TestFIFOTwoContextTransfer(t *testing.T) {
	if afifo.RaceEnabled {
		t.Skip("skip: cursor publication uses cross-variable memory ordering")
	}

	const (
		total   = 200000
		timeout = 30 * time.Second
	)

	q := afifo.NewFIFO[int](64)
	received := queue.New()

	go func() {
		sw := spin.Wait{}
		for i := range total {
			v := i
			for q.Enqueue(&v) != nil {
				sw.Once()
			}
		}
	}()

	deadline := time.Now().Add(timeout)
	backoff := iox.Backoff{}
	for received.Length() < total {
		v, err := q.Dequeue()
		if err != nil {
			if time.Now().After(deadline) {
				t.Fatalf("timeout after %v: received %d of %d", timeout, received.Length(), total)
			}
			backoff.Wait()
			continue
		}
		backoff.Reset()
		received.Add(v)
	}

	for i := range total {
		if got := received.Remove().(int); got != i {
			t.Fatalf("position %d: got %d, want %d", i, got, i)
		}
	}

	if !q.Empty() {
		t.Fatal("FIFO not empty after full drain")
	}
}

// TestFIFOUncorrelatedRates jitters both cadences through a minimal
// FIFO so every occupancy transition (fill, saturate, drain, wrap) is
// crossed many times.
func TestFIFOUncorrelatedRates(t *testing.T) {
	if afifo.RaceEnabled {
		t.Skip("skip: cursor publication uses cross-variable memory ordering")
	}

	const (
		total   = 50000
		timeout = 30 * time.Second
	)

	q := afifo.NewDepth[uint32](1) // Capacity 2: maximal contention
	go func() {
		sw := spin.Wait{}
		for i := range total {
			v := uint32(i)
			for q.Enqueue(&v) != nil {
				sw.Once()
			}
			// Burst then stall, uncorrelated with the consumer.
			if fastrand.Uint32n(16) == 0 {
				sw.Once()
			}
		}
	}()

	deadline := time.Now().Add(timeout)
	backoff := iox.Backoff{}
	for want := uint32(0); want < total; {
		got, err := q.Dequeue()
		if err != nil {
			if time.Now().After(deadline) {
				t.Fatalf("timeout after %v: consumed %d of %d", timeout, want, total)
			}
			backoff.Wait()
			continue
		}
		backoff.Reset()
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
		want++
		if fastrand.Uint32n(16) == 0 {
			backoff.Wait()
		}
	}
}

// TestFIFOPtrOwnershipTransfer streams heap objects by pointer and
// verifies every object arrives intact exactly once.
func TestFIFOPtrOwnershipTransfer(t *testing.T) {
	if afifo.RaceEnabled {
		t.Skip("skip: cursor publication uses cross-variable memory ordering")
	}

	const (
		total   = 100000
		timeout = 30 * time.Second
	)

	q := afifo.NewFIFOPtr(32)
	go func() {
		sw := spin.Wait{}
		for i := 1; i <= total; i++ {
			v := new(uint64)
			*v = uint64(i)
			for q.Enqueue(ptrOf(v)) != nil {
				sw.Once()
			}
		}
	}()

	deadline := time.Now().Add(timeout)
	backoff := iox.Backoff{}
	var sum uint64
	for n := 0; n < total; {
		p, err := q.Dequeue()
		if err != nil {
			if time.Now().After(deadline) {
				t.Fatalf("timeout after %v: consumed %d of %d", timeout, n, total)
			}
			backoff.Wait()
			continue
		}
		backoff.Reset()
		sum += *(*uint64)(p)
		n++
	}

	if want := uint64(total) * (total + 1) / 2; sum != want {
		t.Fatalf("sum: got %d, want %d (lost or duplicated elements)", sum, want)
	}
}

// TestFIFOIndirectPingPong circulates pool handles through a forward and
// a backward FIFO between two contexts.
func TestFIFOIndirectPingPong(t *testing.T) {
	if afifo.RaceEnabled {
		t.Skip("skip: cursor publication uses cross-variable memory ordering")
	}

	const (
		handles = 8
		rounds  = 20000
		timeout = 30 * time.Second
	)

	fwd := afifo.NewFIFOIndirect(handles)
	bwd := afifo.NewFIFOIndirect(handles)

	// Echo context: everything arriving on fwd goes back on bwd.
	go func() {
		sw := spin.Wait{}
		for range rounds * handles {
			var h uintptr
			var err error
			for h, err = fwd.Dequeue(); err != nil; h, err = fwd.Dequeue() {
				sw.Once()
			}
			for bwd.Enqueue(h) != nil {
				sw.Once()
			}
		}
	}()

	deadline := time.Now().Add(timeout)
	backoff := iox.Backoff{}
	for round := range rounds {
		for h := range handles {
			for fwd.Enqueue(uintptr(h)) != nil {
				if time.Now().After(deadline) {
					t.Fatalf("timeout after %v in round %d", timeout, round)
				}
				backoff.Wait()
			}
		}
		var seen [handles]bool
		for range handles {
			h, err := bwd.Dequeue()
			for err != nil {
				if time.Now().After(deadline) {
					t.Fatalf("timeout after %v in round %d", timeout, round)
				}
				backoff.Wait()
				h, err = bwd.Dequeue()
			}
			if h >= handles || seen[h] {
				t.Fatalf("round %d: bad or duplicate handle %d", round, h)
			}
			seen[h] = true
		}
	}
}

// =============================================================================
// Model Conformance
// =============================================================================

// TestFIFORandomOpsModel drives one FIFO with a random single-context
// operation mix and checks every outcome against a reference queue.
// Within one context a refreshed snapshot is exact, so the FIFO must
// agree with the model on every accept and refuse.
func TestFIFORandomOpsModel(t *testing.T) {
	const ops = 200000

	q := afifo.NewFIFO[uint32](8)
	model := queue.New()
	capacity := q.Cap()

	for op := range ops {
		if fastrand.Uint32n(2) == 0 {
			v := fastrand.Uint32()
			err := q.Enqueue(&v)
			switch {
			case model.Length() == capacity:
				if !afifo.IsWouldBlock(err) {
					t.Fatalf("op %d: Enqueue on full model: got %v, want ErrWouldBlock", op, err)
				}
			case err != nil:
				t.Fatalf("op %d: Enqueue with %d/%d occupied: %v", op, model.Length(), capacity, err)
			default:
				model.Add(v)
			}
		} else {
			got, err := q.Dequeue()
			switch {
			case model.Length() == 0:
				if !afifo.IsWouldBlock(err) {
					t.Fatalf("op %d: Dequeue on empty model: got %v, want ErrWouldBlock", op, err)
				}
			case err != nil:
				t.Fatalf("op %d: Dequeue with %d occupied: %v", op, model.Length(), err)
			default:
				if want := model.Remove().(uint32); got != want {
					t.Fatalf("op %d: Dequeue got %d, want %d", op, got, want)
				}
			}
		}

		if full := model.Length() == capacity; q.Full() != full {
			t.Fatalf("op %d: Full() = %v with %d/%d occupied", op, !full, model.Length(), capacity)
		}
		if empty := model.Length() == 0; q.Empty() != empty {
			t.Fatalf("op %d: Empty() = %v with %d occupied", op, !empty, model.Length())
		}
	}
}
