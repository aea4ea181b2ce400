// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package bench

import "fmt"

const million = 1_000_000.0

// formatConsumerLine renders one inner Reader's statistics for either
// a pure consumer task or a mixed worker's own MultiReader.
func formatConsumerLine(consumerIndex, ringIndex int, count, retry1, retry2, multiskip uint64) string {
	return fmt.Sprintf(
		"Read %d/%d: %.3f (%d), Retry: %.3f %.3f, Multiskip: %d",
		consumerIndex, ringIndex,
		float64(count)/million, count,
		float64(retry1)/million, float64(retry2)/million,
		multiskip,
	)
}

// formatProducerLine renders a pure-producer task's final statistics.
func formatProducerLine(success, retry1 uint64) string {
	return fmt.Sprintf(
		"Written: %.3f (%d) Retry: %.3f",
		float64(success)/million, success,
		float64(retry1)/million,
	)
}

// formatMixedProducerLine renders a mixed worker's write-side
// statistics, prefixed with its index to distinguish it from a pure
// producer's line.
func formatMixedProducerLine(index int, success, retry1 uint64) string {
	return fmt.Sprintf(
		"Written %d: %.3f (%d) Retry: %.3f",
		index,
		float64(success)/million, success,
		float64(retry1)/million,
	)
}

// formatAggregateLine renders the final summary line printed once all
// workers have joined.
func formatAggregateLine(totalWrites uint64, millionOpsSec float64) string {
	return fmt.Sprintf("%d write ops, %.3f million ops/sec", totalWrites, millionOpsSec)
}
