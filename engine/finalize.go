package engine

import (
	"math"

	"github.com/Architecto0r/SlotZero/types"
)

// quorum returns ⌈N · ratio⌉.
func quorum(numValidators uint64, ratio float64) int {
	return int(math.Ceil(float64(numValidators) * ratio))
}

// tryFinalize marks block finalized if it isn't already and its vote count
// meets quorum; returns true iff it just transitioned false -> true.
// finalized is monotone: this never clears the flag, even if quorum is
// raised afterward.
func tryFinalize(block *types.Block, numValidators uint64, ratio float64) bool {
	if block.Finalized {
		return false
	}
	if block.VoteCount() >= quorum(numValidators, ratio) {
		block.Finalized = true
		return true
	}
	return false
}
