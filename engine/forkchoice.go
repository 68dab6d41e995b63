package engine

import "github.com/Architecto0r/SlotZero/types"

// computeHead implements LMD-GHOST: walk from genesis, at each step
// choosing the child whose subtree holds the most validator latest-messages,
// tie-broken by the greatest max slot in the subtree, further tied by
// children() iteration order (insertion order per slot, slots ascending).
//
// Faulty/slashed validators still count if their latest message is present;
// the filter applies at vote production, not at fork-choice time.
//
// Weight is computed with a single pass over validators' latest messages,
// walking each one's ancestor chain up to genesis and incrementing every
// ancestor's tally — the block tree equivalent of LMD GHOST's "votes for
// descendants count toward ancestors" rule.
func computeHead(t *blockTree, r *registry) types.BlockID {
	weight := make(map[types.BlockID]int)
	for _, v := range r.validators {
		if v.LatestMessage == nil {
			continue
		}
		target := v.LatestMessage.BlockID
		if !t.contains(target) {
			continue
		}
		for _, ancestor := range t.ancestors(target) {
			weight[ancestor]++
		}
	}

	cur := types.BlockID(types.GenesisID)
	for {
		children := t.childrenOf(cur)
		if len(children) == 0 {
			return cur
		}

		best := children[0]
		bestWeight := weight[best]
		bestMaxSlot := t.maxSlotInSubtree(best)
		for _, c := range children[1:] {
			w := weight[c]
			m := t.maxSlotInSubtree(c)
			if w > bestWeight || (w == bestWeight && m > bestMaxSlot) {
				best, bestWeight, bestMaxSlot = c, w, m
			}
		}
		cur = best
	}
}

// maxSlotInSubtree returns the greatest slot number among root and its
// descendants, used as the fork-choice tie-break.
func (t *blockTree) maxSlotInSubtree(root types.BlockID) uint64 {
	max := t.blocks[root].Slot
	for id := range t.subtree(root) {
		if s := t.blocks[id].Slot; s > max {
			max = s
		}
	}
	return max
}
