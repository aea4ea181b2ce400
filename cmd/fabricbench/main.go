// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

// Command fabricbench drives one run of the multi-ring SPMC
// message-fabric benchmark: it parses the five positional arguments
// described by its usage line, spawns the configured producer,
// consumer, and mixed worker tasks, and prints one statistics line per
// worker plus a final aggregate throughput line.
package main

import (
	"fmt"
	"os"

	"github.com/javarange/fabricbench/internal/bench"
	"github.com/javarange/fabricbench/internal/obslog"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (exitCode int) {
	logger, err := obslog.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fabricbench: failed to initialize logger:", err)
		return 1
	}
	defer logger.Sync()

	// Reflect any container CPU quota into GOMAXPROCS before spawning
	// worker goroutines, so a cgroup-limited run does not oversubscribe
	// its hot loops past the cores it actually has.
	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Sugar().Debugf(format, args...)
	}))
	if err != nil {
		logger.Warn("automaxprocs: failed to adjust GOMAXPROCS", zap.Error(err))
	} else {
		defer undo()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Fatal("protocol violation, halting", zap.Any("panic", r))
			exitCode = 1
		}
	}()

	cmd := newRootCommand(logger)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCommand(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fabricbench <iterations_millions> <read_thread_count> <write_thread_count> <read_write_thread_count> <processing_time>",
		Short: "Benchmark a multi-producer/multi-consumer SPMC ring-buffer fabric",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bench.ParseArgs(args)
			if err != nil {
				return err
			}

			report, err := bench.Run(cfg, logger)
			if err != nil {
				return err
			}

			for _, line := range report.Lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
		SilenceUsage: false,
	}
	return cmd
}
