// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

// Package affinity provides a best-effort hint that pins the calling
// goroutine's OS thread to a single logical CPU. It is never load-bearing:
// callers must treat a returned error as something to log, not something
// to react to, since the benchmark's correctness never depends on
// pinning actually succeeding.
package affinity

// Pin attempts to restrict the calling goroutine's underlying OS thread
// to logicalCPU. The platform-specific implementation locks the
// goroutine to its OS thread for the lifetime of the call (and leaves
// it locked, since an unpinned thread defeats the purpose); callers
// that want the hint should call Pin once at the top of their hot loop
// goroutine, before entering the start-barrier spin.
func Pin(logicalCPU int) error {
	return pin(logicalCPU)
}
