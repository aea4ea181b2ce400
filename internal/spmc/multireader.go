// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package spmc

import "github.com/javarange/fabricbench/internal/ring"

// ReaderWithCount pairs a Reader with the number of values it has
// successfully claimed, so a single consumer's per-ring throughput can
// be reported once all workers join.
type ReaderWithCount struct {
	Reader *Reader
	Count  uint64
}

// MultiReader fans a single consumer goroutine in across one Reader
// per producer Ring. The inner readers are stored in rotated order: a
// MultiReader built with preferredRing k out of ringCount rings reads
// ring (k+0)%ringCount first, then (k+1)%ringCount, and so on, so that
// concurrently-running consumers don't all probe ring 0 first.
type MultiReader struct {
	Readers []ReaderWithCount
}

// NewMultiReader builds a MultiReader over rings, starting its
// rotation at preferredRing.
func NewMultiReader(rings []*ring.Ring, preferredRing int) *MultiReader {
	ringCount := len(rings)
	readers := make([]ReaderWithCount, ringCount)
	for i := 0; i < ringCount; i++ {
		r := rings[(i+preferredRing)%ringCount]
		readers[i] = ReaderWithCount{Reader: NewReader(r)}
	}
	return &MultiReader{Readers: readers}
}

// Read probes each inner Reader once, in rotated order, and returns the
// first claimed value. If every Reader reports nothing to read, Read
// returns (0, false). Fairness is strictly per-call: a very busy ring
// can dominate across repeated calls, since there is no starvation
// avoidance beyond "every ring is probed every call".
func (mr *MultiReader) Read() (uint64, bool) {
	for i := range mr.Readers {
		rc := &mr.Readers[i]
		value, ok := rc.Reader.Read()
		if ok {
			rc.Count++
			return value, true
		}
	}
	return 0, false
}

// BlockingRead loops Read, with a CPU pause hint between rounds, until
// a value is returned. It never times out.
func (mr *MultiReader) BlockingRead() uint64 {
	for {
		if value, ok := mr.Read(); ok {
			return value
		}
		pauseCPU()
	}
}
