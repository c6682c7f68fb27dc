// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package afifo

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrent tests, which trigger false positives
// because the detector cannot track happens-before edges established
// through atomix memory orderings.
const RaceEnabled = true
