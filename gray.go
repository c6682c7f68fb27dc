// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afifo

// grayEncode converts a binary cursor to its reflected-binary form.
// Adjacent cursor values differ in exactly one bit of the encoded form,
// including across the power-of-two wrap, so a published register never
// holds a value that mixes bits of two consecutive cursors.
func grayEncode(c uint64) uint64 {
	return c ^ (c >> 1)
}

// grayDecode converts a reflected-binary value back to a binary cursor.
// Decoding is the prefix XOR of the encoded bits, computed with doubling
// shifts.
func grayDecode(g uint64) uint64 {
	g ^= g >> 32
	g ^= g >> 16
	g ^= g >> 8
	g ^= g >> 4
	g ^= g >> 2
	g ^= g >> 1
	return g
}
