// Copyright (c) 2025 Joshua Skootsky
//
// Licensed under the Business Source License 1.1
// You may use this file only in compliance with one of:
// 1. BSL-1.1 (non-production use is free)
// 2. Commercial License (contact for pricing)
//
// After 4 years (2029-01-01), this becomes Apache-2.0

package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func discardLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zap.NewNop()
}

func TestParseArgs_WrongArgumentCount(t *testing.T) {
	_, err := ParseArgs([]string{"1", "1", "1", "0"})
	require.Error(t, err)
}

func TestParseArgs_NonNumeric(t *testing.T) {
	_, err := ParseArgs([]string{"x", "1", "1", "0", "0"})
	require.Error(t, err)
}

func TestParseArgs_Negative(t *testing.T) {
	_, err := ParseArgs([]string{"-1", "1", "1", "0", "0"})
	require.Error(t, err)
}

func TestParseArgs_Good(t *testing.T) {
	cfg, err := ParseArgs([]string{"2", "3", "4", "5", "6"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000), cfg.TotalOps)
	assert.Equal(t, 3, cfg.ReadThreads)
	assert.Equal(t, 4, cfg.WriteThreads)
	assert.Equal(t, 5, cfg.ReadWriteThreads)
	assert.Equal(t, 6, cfg.ProcessingTime)
	assert.Equal(t, uint64(DefaultRingCapacity), cfg.RingCapacity)
}

// Scenario: args = 1 1 1 0 0
func TestScenario_OneReaderOneWriter(t *testing.T) {
	cfg, err := ParseArgs([]string{"1", "1", "1", "0", "0"})
	require.NoError(t, err)

	report, err := Run(cfg, discardLogger(t))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_001), report.TotalWrites)
}

// Scenario: args = 0 1 1 0 0, zero total iterations, one consumer, one
// producer; the producer still performs its "+1" write regardless of
// total, and the run must still exit cleanly.
func TestScenario_ZeroIterationsOneReaderOneWriter(t *testing.T) {
	cfg, err := ParseArgs([]string{"0", "1", "1", "0", "0"})
	require.NoError(t, err)

	report, err := Run(cfg, discardLogger(t))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), report.TotalWrites)
}

// Scenario: a producer with no consumer at all must still complete
// when Total is zero (a single "+1" write never fills a 1024-capacity
// ring). The spec documents that the *non-zero* iteration variant of
// this combination (no reader, one writer, iterations_millions=1)
// deadlocks once the ring fills; that variant is intentionally not
// exercised here, since nothing ever frees its slots.
func TestScenario_WriterWithNoReaderAtZeroTotal(t *testing.T) {
	cfg, err := ParseArgs([]string{"0", "0", "1", "0", "0"})
	require.NoError(t, err)

	report, err := Run(cfg, discardLogger(t))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), report.TotalWrites)
}

// Scenario: args = 1 2 2 0 0
func TestScenario_TwoReadersTwoWriters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping multi-million-op scenario in short mode")
	}
	cfg, err := ParseArgs([]string{"1", "2", "2", "0", "0"})
	require.NoError(t, err)

	report, err := Run(cfg, discardLogger(t))
	require.NoError(t, err)
	assert.Equal(t, uint64(2*(500_000+1)), report.TotalWrites)
}

// Scenario: args = 10 0 0 2 0
func TestScenario_TwoMixedWorkers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping multi-million-op scenario in short mode")
	}
	cfg, err := ParseArgs([]string{"10", "0", "0", "2", "0"})
	require.NoError(t, err)

	report, err := Run(cfg, discardLogger(t))
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000_000), report.TotalWrites)
}

// Scenario: args = 1 1 1 0 1000, the consumer stalls after every read,
// but the producer's liveness depends only on the reader freeing slots
// modulo ring capacity, not on the reader's overall speed, so the
// producer must still complete all its writes.
func TestScenario_StallingConsumerStillLetsProducerFinish(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping processing-time scenario in short mode")
	}
	cfg, err := ParseArgs([]string{"1", "1", "1", "0", "1000"})
	require.NoError(t, err)

	report, err := Run(cfg, discardLogger(t))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_001), report.TotalWrites)
}

func TestRun_ReportsOneLinePerWorkerPlusAggregate(t *testing.T) {
	cfg, err := ParseArgs([]string{"0", "1", "1", "1", "0"})
	require.NoError(t, err)

	report, err := Run(cfg, discardLogger(t))
	require.NoError(t, err)

	// 1 producer line + 1 consumer line (reading the sole producer
	// ring) + (1 mixed consumer line + 1 mixed producer line) + 1
	// aggregate line.
	assert.Len(t, report.Lines, 5)
	assert.Contains(t, report.Lines[len(report.Lines)-1], "write ops")
}

func TestRun_RejectsBadRingCapacity(t *testing.T) {
	cfg, err := ParseArgs([]string{"0", "1", "1", "0", "0"})
	require.NoError(t, err)
	cfg.RingCapacity = 100 // not a power of two

	_, err = Run(cfg, discardLogger(t))
	require.Error(t, err)
}
