// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afifo

import "code.hybscloud.com/atomix"

// publish makes cursor c visible to the remote context through reg.
//
// The release store orders every ring access made before the advance
// ahead of the cursor becoming visible; the paired acquire load in
// sampler.step completes the happens-before edge. The Gray encoding is
// not load-bearing under the in-process memory model (an atomic store
// cannot tear) and is retained from the publication protocol: a cursor
// advance flips exactly one bit of the register, which keeps any
// observer outside the atomic domain (shared-memory mirrors, debug
// snapshots) torn-read safe as well.
func publish(reg *atomix.Uint64, c uint64) {
	reg.StoreRelease(grayEncode(c))
}

// sampler is the two-stage pipeline through which one context observes
// the other's published cursor.
//
// stage1 holds the most recent sample; stage2 is the trusted snapshot
// consulted by the occupancy checks. A remote advance reaches the
// trusted stage only after two local sampling steps, so every snapshot
// lags the true remote cursor by a bounded number of steps. The lag is
// deliberate headroom: a stale snapshot can only undercount remote
// progress, never overcount it, which keeps full and empty conservative.
type sampler struct {
	stage1 uint64
	stage2 uint64
}

// step advances the pipeline by one local step against reg.
func (s *sampler) step(reg *atomix.Uint64) {
	s.stage2 = s.stage1
	s.stage1 = grayDecode(reg.LoadAcquire())
}

// snapshot returns the trusted remote cursor without touching reg.
func (s *sampler) snapshot() uint64 {
	return s.stage2
}

// refresh runs two sampling steps so the latest published cursor reaches
// the trusted stage, then returns it. Called only when the current
// snapshot reports would-block; the fast path never loads the shared
// register.
func (s *sampler) refresh(reg *atomix.Uint64) uint64 {
	s.step(reg)
	s.step(reg)
	return s.stage2
}
