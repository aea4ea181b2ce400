// Copyright (c) 2025 Joshua Skootsky
//
// Licensed under the Business Source License 1.1
// You may use this file only in compliance with one of:
// 1. BSL-1.1 (non-production use is free)
// 2. Commercial License (contact for pricing)
//
// After 4 years (2029-01-01), this becomes Apache-2.0

package obslog

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_LogsWithoutError(t *testing.T) {
	logger, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	defer logger.Sync()

	logger.Info("run starting", zap.Int("rings", 4))
	logger.Warn("affinity pin failed, continuing without it")
}
