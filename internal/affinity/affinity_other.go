//go:build !linux

// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package affinity

// pin is a no-op on platforms without a sched_setaffinity-style
// syscall wired up. Returning nil here (rather than an error) keeps
// non-Linux runs from spuriously logging an affinity warning on every
// worker when pinning was never attempted in the first place.
func pin(logicalCPU int) error {
	return nil
}
