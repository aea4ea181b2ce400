// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package bench

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/javarange/fabricbench/internal/affinity"
	"github.com/javarange/fabricbench/internal/ring"
	"github.com/javarange/fabricbench/internal/spmc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// lineSink collects the per-worker statistics lines every worker
// produces exactly once, at the very end of its run, from however many
// goroutines are contending. A mutex-guarded slice rather than a
// channel avoids having to size a buffer against R*W + M*(M+1) lines
// up front.
type lineSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *lineSink) add(line string) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()
}

// RunReport is the aggregate result of one run: the printable
// per-worker statistics lines (in whatever order their goroutines
// happened to finish in, per spec), plus the totals used for the final
// throughput line and for tests.
type RunReport struct {
	Lines         []string
	TotalWrites   uint64
	Elapsed       time.Duration
	MillionOpsSec float64
}

// startGate is the published-once flag every worker spins on before
// entering its hot loop, so all workers begin close to simultaneously.
type startGate struct {
	open atomic.Bool
}

func (g *startGate) wait() {
	for !g.open.Load() {
		runtime.Gosched()
	}
}

func (g *startGate) release() {
	g.open.Store(true)
}

// processingPause simulates n units of downstream work after a
// successful consumer read, spinning with the same pause hint used on
// the hot path rather than sleeping.
func processingPause(n int) {
	for i := 0; i < n; i++ {
		runtime.Gosched()
	}
}

// Run executes one full benchmark run: it allocates the producer and
// mixed-worker rings, spawns every producer/consumer/mixed task behind
// a shared start barrier, joins them all, and returns the aggregate
// report. The supplied logger receives only non-hot-path diagnostic
// events (run start, affinity warnings, protocol-violation aborts); it
// never sees the per-worker
// statistics lines, which are returned as plain strings for the caller
// to print verbatim.
func Run(cfg RunConfig, logger *zap.Logger) (RunReport, error) {
	if err := validateRingCapacity(cfg.RingCapacity); err != nil {
		return RunReport{}, err
	}

	logger.Info("starting run",
		zap.Uint64("total_ops", cfg.TotalOps),
		zap.Int("read_threads", cfg.ReadThreads),
		zap.Int("write_threads", cfg.WriteThreads),
		zap.Int("read_write_threads", cfg.ReadWriteThreads),
		zap.Int("processing_time", cfg.ProcessingTime),
		zap.Uint64("ring_capacity", cfg.RingCapacity),
	)

	producerRings := make([]*ring.Ring, cfg.WriteThreads)
	for i := range producerRings {
		producerRings[i] = ring.New(cfg.RingCapacity)
	}
	mixedRings := make([]*ring.Ring, cfg.ReadWriteThreads)
	for i := range mixedRings {
		mixedRings[i] = ring.New(cfg.RingCapacity)
	}

	var runningWriters atomic.Int64
	runningWriters.Store(int64(cfg.WriteThreads))
	var totalWrites atomic.Uint64
	gate := &startGate{}
	sink := &lineSink{}

	group, _ := errgroup.WithContext(context.Background())

	for i := 0; i < cfg.WriteThreads; i++ {
		i := i
		group.Go(func() error {
			return runProducer(cfg, logger, producerRings[i], i, gate, &runningWriters, &totalWrites, sink)
		})
	}
	for i := 0; i < cfg.ReadThreads; i++ {
		i := i
		group.Go(func() error {
			return runConsumer(cfg, logger, producerRings, i, gate, &runningWriters, sink)
		})
	}
	for i := 0; i < cfg.ReadWriteThreads; i++ {
		i := i
		group.Go(func() error {
			return runMixed(cfg, logger, mixedRings, i, gate, &totalWrites, sink)
		})
	}

	gate.release()
	start := time.Now()

	waitErr := group.Wait()
	elapsed := time.Since(start)

	if waitErr != nil {
		return RunReport{}, waitErr
	}

	report := RunReport{
		TotalWrites: totalWrites.Load(),
		Elapsed:     elapsed,
		Lines:       sink.lines,
	}
	elapsedMillis := float64(elapsed.Milliseconds())
	if elapsedMillis > 0 {
		report.MillionOpsSec = float64(report.TotalWrites) / elapsedMillis * 1000.0 / 1_000_000.0
	}
	report.Lines = append(report.Lines, formatAggregateLine(report.TotalWrites, report.MillionOpsSec))

	return report, nil
}

func runProducer(cfg RunConfig, logger *zap.Logger, r *ring.Ring, index int, gate *startGate, runningWriters *atomic.Int64, totalWrites *atomic.Uint64, sink *lineSink) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Fatal("protocol violation in producer, halting", zap.Any("panic", rec))
		}
	}()

	if cfg.AffinityEnabled {
		if pinErr := affinity.Pin(index); pinErr != nil {
			logger.Warn("affinity pin failed", zap.Error(pinErr))
		}
	}

	w := spmc.NewWriter(r)
	gate.wait()

	total := perWriterTotal(cfg.TotalOps, cfg.WriteThreads)
	var success uint64
	for ; success < total; success++ {
		w.Write()
	}
	runningWriters.Add(-1)

	sink.add(formatProducerLine(success, w.Retry1))
	totalWrites.Add(success)
	return nil
}

func runConsumer(cfg RunConfig, logger *zap.Logger, producerRings []*ring.Ring, index int, gate *startGate, runningWriters *atomic.Int64, sink *lineSink) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Fatal("protocol violation in consumer, halting", zap.Any("panic", rec))
		}
	}()

	if cfg.AffinityEnabled {
		if pinErr := affinity.Pin(index + cfg.WriteThreads); pinErr != nil {
			logger.Warn("affinity pin failed", zap.Error(pinErr))
		}
	}

	mr := spmc.NewMultiReader(producerRings, index)
	gate.wait()

	for {
		liveProducers := runningWriters.Load() != 0
		_, ok := mr.Read()
		if ok {
			processingPause(cfg.ProcessingTime)
			continue
		}
		if !liveProducers {
			break
		}
		runtime.Gosched()
	}

	for i, rc := range mr.Readers {
		sink.add(formatConsumerLine(index, i, rc.Count, rc.Reader.Retry1, rc.Reader.Retry2, rc.Reader.Multiskip))
	}
	return nil
}

func runMixed(cfg RunConfig, logger *zap.Logger, mixedRings []*ring.Ring, index int, gate *startGate, totalWrites *atomic.Uint64, sink *lineSink) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Fatal("protocol violation in mixed worker, halting", zap.Any("panic", rec))
		}
	}()

	if cfg.AffinityEnabled {
		if pinErr := affinity.Pin(index); pinErr != nil {
			logger.Warn("affinity pin failed", zap.Error(pinErr))
		}
	}

	w := spmc.NewWriter(mixedRings[index])
	mr := spmc.NewMultiReader(mixedRings, index)
	gate.wait()

	rounds := perMixedRounds(cfg.TotalOps, cfg.ReadWriteThreads)
	var writeSuccess uint64
	for round := uint64(0); round < rounds; round++ {
		for i := 0; i < 10; i++ {
			w.Write()
			writeSuccess++
		}
		for i := 0; i < 10; i++ {
			mr.BlockingRead()
			processingPause(cfg.ProcessingTime)
		}
	}

	for i, rc := range mr.Readers {
		sink.add(formatConsumerLine(index, i, rc.Count, rc.Reader.Retry1, rc.Reader.Retry2, rc.Reader.Multiskip))
	}
	sink.add(formatMixedProducerLine(index, writeSuccess, w.Retry1))
	totalWrites.Add(writeSuccess)
	return nil
}
