// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

// Package obslog builds the structured logger used for the handful of
// non-hot-path events a run produces: startup configuration, affinity
// warnings, and protocol-violation aborts. The per-worker statistics
// lines required by the console output contract are printed separately
// with fmt, since their exact text is a fixed output format, not a log
// line.
package obslog

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console-encoded *zap.Logger suitable for a short-lived
// CLI process: human-readable, ISO8601 timestamps, no file output, no
// sampling (every message matters at this low a volume).
func New() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = isoTimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(zapcore.AddSync(os.Stderr)),
		zapcore.InfoLevel,
	)
	return zap.New(core), nil
}

func isoTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format("2006-01-02T15:04:05.000Z"))
}
