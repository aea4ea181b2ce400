// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package spmc

import (
	"fmt"

	"github.com/javarange/fabricbench/internal/ring"
)

// Reader owns the read cursor into one ring.Ring. Any number of
// Readers may contend on the same Ring; exactly one will win the claim
// CAS for a given slot.
type Reader struct {
	_        [cacheLinePad - 8]byte
	position uint64
	ring     *ring.Ring

	// Retry1 counts observations of "nothing published yet".
	Retry1 uint64
	// Retry2 counts lost claim-CAS races against another reader.
	Retry2 uint64
	// Multiskip counts stride doublings during skip-ahead recovery.
	Multiskip uint64
	_         [cacheLinePad - 24]byte
}

// NewReader returns a Reader bound to r, with its cursor starting two
// laps in, matching the Writer's initial position.
func NewReader(r *ring.Ring) *Reader {
	return &Reader{
		position: 2 * r.Capacity(),
		ring:     r,
	}
}

// Position returns the Reader's current cursor, for tests that assert
// monotonicity.
func (rd *Reader) Position() uint64 { return rd.position }

// Read returns the next claimed message value, or (0, false) if none
// is currently available. It never blocks: on a publish that has not
// happened yet it returns immediately; on a reader that has fallen
// behind a producer's generation it skips ahead rather than wait.
func (rd *Reader) Read() (uint64, bool) {
	for {
		idx := rd.ring.Index(rd.position)
		expectedFull := rd.ring.ExpectedFull(rd.position)
		value := rd.ring.Load(idx)

		switch {
		case value < expectedFull:
			if value < expectedFull-2 {
				panic(fmt.Sprintf("ring protocol violation: position %d slot %d value %d below floor %d", rd.position, idx, value, expectedFull-2))
			}
			rd.Retry1++
			return 0, false

		case value == expectedFull:
			if rd.ring.CompareAndSwapAcquire(idx, value, value+1) {
				rd.position++
				return value, true
			}
			rd.Retry2++
			continue

		default: // value > expectedFull: this reader has fallen behind
			rd.skipAhead()
			continue
		}
	}
}

// skipAhead advances the Reader's cursor past slots that have already
// been recycled by the time this reader got to them. It doubles a
// stride s, starting at 1, for as long as the slot at position+2s is
// still at least one full generation ahead, then jumps by the first s
// whose probe is not (for s > 1 that lands on the last probed position
// that was still ahead). The 2s stride (rather than s) guarantees the probe
// never lands on a slot that might still be mid-claim by another
// reader, and the half-lap encoding makes "more than one generation
// ahead" a simple comparison. Messages skipped this way are lost from
// this reader's perspective; the protocol trades their delivery for
// producer liveness.
func (rd *Reader) skipAhead() {
	stride := uint64(1)
	for {
		probePosition := rd.position + stride*2
		probeIdx := rd.ring.Index(probePosition)
		probeExpectedFull := rd.ring.ExpectedFull(probePosition)
		if rd.ring.Load(probeIdx) < probeExpectedFull+2 {
			break
		}
		stride *= 2
		rd.Multiskip++
	}
	rd.position += stride
}
