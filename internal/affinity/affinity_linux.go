//go:build linux

// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package affinity

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

func pin(logicalCPU int) error {
	if logicalCPU < 0 {
		return fmt.Errorf("affinity: logical cpu %d is negative", logicalCPU)
	}

	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(logicalCPU)

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity(cpu=%d): %w", logicalCPU, err)
	}
	return nil
}
