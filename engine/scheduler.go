package engine

import "github.com/Architecto0r/SlotZero/types"

// scheduleVotesLocked enqueues a vote event for every active validator
// targeting blockID. Delay and target-coin draws happen in the
// fixed per-validator order (delay, then target-coin if delay > 0) that
// deterministic replay requires.
func (e *Engine) scheduleVotesLocked(blockID types.BlockID, originSlot uint64) {
	for _, vid := range e.registry.activeIDs() {
		d := uint64(e.rng.Intn(int(e.cfg.MaxDelaySlots) + 1))

		target := blockID
		if d > 0 && e.rng.Float64() < 0.5 {
			target = e.headLocked()
		}

		e.queue.enqueue(types.VoteEvent{
			DeliverSlot: originSlot + d,
			Validator:   vid,
			BlockID:     target,
			OriginSlot:  originSlot,
		})
	}
}
