// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

// Package spmc implements the single-producer/multi-consumer protocol
// that rides on top of one ring.Ring: a Writer that owns the ring's
// write cursor, a Reader that claims published slots and recovers from
// lag by skipping ahead, and a MultiReader that fans a single consumer
// in across one Reader per producer ring.
//
// # Performance Characteristics
//
//   - Wait-free publish: Write always completes once the slot frees,
//     spinning only on genuine consumer lag.
//   - Lock-free claim: Read never blocks; a reader that has fallen
//     behind skips ahead rather than waiting.
//   - Zero allocations: all state is pre-allocated by the caller before
//     the hot loop starts.
//   - Cache-line padding: producer and consumer cursors never share a
//     line with each other's mutable state.
package spmc

import "github.com/javarange/fabricbench/internal/ring"

const cacheLinePad = 64

// Writer owns the write cursor into exactly one ring.Ring. Only one
// goroutine may ever call Write on a given Writer; two Writers racing
// on the same Ring is a protocol violation the design does not detect.
type Writer struct {
	_        [cacheLinePad - 8]byte
	position uint64
	ring     *ring.Ring

	// Retry1 counts spins waiting for a slot to free. Diagnostics only;
	// safe to read once the owning goroutine has finished writing.
	Retry1 uint64
	_      [cacheLinePad - 8]byte
}

// NewWriter returns a Writer bound to r, with its cursor starting two
// laps in so the ring's bootstrap slot value (4) satisfies
// ExpectedEmpty at the first write.
func NewWriter(r *ring.Ring) *Writer {
	return &Writer{
		position: 2 * r.Capacity(),
		ring:     r,
	}
}

// Write advances the Writer's cursor by one and leaves the
// corresponding slot published. It loops until the slot is in the
// expected-empty state for the current lap, calling pauseCPU between
// checks; pauseCPU is runtime.Gosched, so each round yields the
// processor to other goroutines and no CPU PAUSE instruction is
// issued. The only legitimate reason to wait is a lagging reader,
// since a Ring has exactly one Writer; Write never returns without
// publishing.
func (w *Writer) Write() {
	idx := w.ring.Index(w.position)
	expectedEmpty := w.ring.ExpectedEmpty(w.position)

	for w.ring.Load(idx) != expectedEmpty {
		w.Retry1++
		pauseCPU()
	}

	w.ring.StoreRelease(idx, expectedEmpty+1)
	w.position++
}

// Position returns the Writer's current cursor, for tests that assert
// monotonicity.
func (w *Writer) Position() uint64 { return w.position }
