// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

// Package bench owns the Run coordinator: it allocates the producer
// and mixed-worker rings, spins up the producer/consumer/mixed-worker
// goroutines behind a shared start barrier, joins them, and reports
// aggregate throughput.
package bench

import (
	"fmt"
	"strconv"

	"github.com/javarange/fabricbench/internal/ring"
)

// DefaultRingCapacity is the reference capacity used by the CLI. It is
// not exposed as a flag: spec-level ring sizing is fixed, though
// RunConfig.RingCapacity remains a field so tests can exercise smaller
// rings without waiting on a million-write run.
const DefaultRingCapacity = 1024

// RunConfig is the validated, immutable parse of the five CLI
// positional arguments plus the fixed ring sizing.
type RunConfig struct {
	// TotalOps is the total producer iteration budget across every
	// producer and mixed-worker task: 1,000,000 * iterations_millions.
	TotalOps uint64
	// ReadThreads is R: pure-consumer tasks, each fanning a MultiReader
	// across every producer-only ring.
	ReadThreads int
	// WriteThreads is W: pure-producer tasks, one ring each.
	WriteThreads int
	// ReadWriteThreads is M: mixed tasks, each owning one ring it both
	// writes and reads.
	ReadWriteThreads int
	// ProcessingTime is the pause-loop iteration count a consumer
	// spins through after each successful read, simulating downstream
	// work.
	ProcessingTime int
	// RingCapacity is the power-of-two slot count for every ring in
	// the run.
	RingCapacity uint64
	// AffinityEnabled controls whether workers attempt the best-effort
	// CPU pinning hint.
	AffinityEnabled bool
}

// ParseArgs validates and parses the five positional CLI arguments
// described by the usage line. It does not apply defaults beyond the
// fixed ring capacity and AffinityEnabled=true; callers needing a different capacity (tests)
// should set RunConfig.RingCapacity after parsing.
func ParseArgs(args []string) (RunConfig, error) {
	if len(args) != 5 {
		return RunConfig{}, fmt.Errorf("expected 5 arguments, got %d", len(args))
	}

	iterationsMillions, err := parseNonNegativeInt(args[0], "iterations_millions")
	if err != nil {
		return RunConfig{}, err
	}
	readThreads, err := parseNonNegativeInt(args[1], "read_thread_count")
	if err != nil {
		return RunConfig{}, err
	}
	writeThreads, err := parseNonNegativeInt(args[2], "write_thread_count")
	if err != nil {
		return RunConfig{}, err
	}
	readWriteThreads, err := parseNonNegativeInt(args[3], "read_write_thread_count")
	if err != nil {
		return RunConfig{}, err
	}
	processingTime, err := parseNonNegativeInt(args[4], "processing_time")
	if err != nil {
		return RunConfig{}, err
	}

	return RunConfig{
		TotalOps:         uint64(iterationsMillions) * 1_000_000,
		ReadThreads:      readThreads,
		WriteThreads:     writeThreads,
		ReadWriteThreads: readWriteThreads,
		ProcessingTime:   processingTime,
		RingCapacity:     DefaultRingCapacity,
		AffinityEnabled:  true,
	}, nil
}

func parseNonNegativeInt(s, name string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", name, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s: %d must not be negative", name, v)
	}
	return v, nil
}

// perWriterTotal is the number of writes a single pure-producer task
// performs: Total/WriteThreads, plus one. The +1 (rather than a true
// ceiling) matches the reference harness exactly, including on exact
// divisions.
func perWriterTotal(total uint64, writeThreads int) uint64 {
	return total/uint64(writeThreads) + 1
}

// perMixedRounds is the number of 10-write/10-read rounds a single
// mixed worker performs.
func perMixedRounds(total uint64, mixedThreads int) uint64 {
	return total / uint64(mixedThreads) / 10
}

// validateRingCapacity guards ring.New's own panic with a regular
// error, since RunConfig.RingCapacity can in principle be set directly
// by a caller (tests) rather than only via ParseArgs.
func validateRingCapacity(capacity uint64) error {
	if capacity < ring.MinCapacity || capacity&(capacity-1) != 0 {
		return fmt.Errorf("ring capacity %d must be a power of two >= %d", capacity, ring.MinCapacity)
	}
	return nil
}
