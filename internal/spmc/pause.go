// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package spmc

import "runtime"

// pauseCPU is the hot-loop spin hint used by Writer.Write and
// MultiReader.BlockingRead. Go has no portable intrinsic for the x86 PAUSE /
// ARM YIELD instruction, so this lowers to runtime.Gosched, the same
// stand-in used by every wait-strategy in the pack (disruptor-style
// yielding strategies). It still relinquishes the P without sleeping
// or making a syscall, which is what keeps it off the hot-path-allocation
// and hot-path-syscall lists.
func pauseCPU() {
	runtime.Gosched()
}
