package engine

import "github.com/Architecto0r/SlotZero/types"

// AppliedVote is a (validator, block) pair from a drained vote delivery.
type AppliedVote struct {
	Validator types.ValidatorID
	BlockID   types.BlockID
}

// StepResult is the orchestrator's outcome record.
type StepResult struct {
	Slot         uint64
	Created      []types.BlockID
	AppliedVotes []AppliedVote
}

// Step advances logical time by one slot, running its sub-steps in
// order under the engine lock. The step is atomic to outside observers:
// no intermediate state (e.g. new blocks before their votes) is ever
// visible between calls.
func (e *Engine) Step(attackMode bool) (StepResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// 1. Advance time and counters.
	e.currentSlot++
	e.metrics.TotalSlotsSimulated++

	// 2. Drain due votes and apply (captures votes scheduled by prior steps).
	applied := e.drainAndApplyLocked()

	// 3. Pick a proposer uniformly from the full validator set.
	all := e.registry.allIDs()
	proposer := all[e.rng.Intn(len(all))]

	// 4. Compute parent from fork choice.
	parent := e.headLocked()

	// 5. Insert 1..k new blocks, forking under attack mode.
	created, err := e.produceBlocksLocked(attackMode, parent, proposer)
	if err != nil {
		return StepResult{}, err
	}

	// 6. Schedule votes for each newly created block.
	for _, id := range created {
		e.scheduleVotesLocked(id, e.currentSlot)
	}

	// 7. Drain due votes again — captures any zero-delay votes just enqueued.
	applied = append(applied, e.drainAndApplyLocked()...)

	// 8. Finalization sweep over every block in the tree.
	for _, id := range e.tree.allIDs() {
		block, _ := e.tree.get(id)
		if tryFinalize(block, e.cfg.NumValidators, e.cfg.QuorumRatio) {
			e.metrics.TotalFinalizations++
		}
	}

	return StepResult{
		Slot:         e.currentSlot,
		Created:      created,
		AppliedVotes: applied,
	}, nil
}

// drainAndApplyLocked drains every due vote event, applies the
// remapping rule, records each on the registry and block tree, and returns
// the (validator, block) pairs actually applied.
func (e *Engine) drainAndApplyLocked() []AppliedVote {
	due := e.queue.drainDue(e.currentSlot)
	applied := make([]AppliedVote, 0, len(due))
	for _, ev := range due {
		blockID := ev.BlockID
		if !e.tree.contains(blockID) {
			blockID = e.tree.greatestBlock()
		}
		e.registry.recordVote(ev.Validator, e.currentSlot, blockID)
		e.tree.recordVote(blockID, ev.Validator)
		e.headCache.bump()
		applied = append(applied, AppliedVote{Validator: ev.Validator, BlockID: blockID})
	}
	return applied
}

// produceBlocksLocked inserts a single block under parent, or — in attack
// mode, with probability FORK_ATTACK_PROB — between MinForkSiblings and
// MaxForkSiblings siblings, all in the current slot.
func (e *Engine) produceBlocksLocked(attackMode bool, parent types.BlockID, proposer types.ValidatorID) ([]types.BlockID, error) {
	numSiblings := 1
	if attackMode && e.rng.Float64() < e.cfg.ForkAttackProb {
		numSiblings = types.MinForkSiblings + e.rng.Intn(types.MaxForkSiblings-types.MinForkSiblings+1)
	}

	created := make([]types.BlockID, 0, numSiblings)
	for i := 0; i < numSiblings; i++ {
		id, err := e.tree.addBlock(e.currentSlot, parent, proposer)
		if err != nil {
			return nil, err
		}
		created = append(created, id)
	}
	e.headCache.bump()

	if numSiblings > 1 {
		e.metrics.TotalForks += uint64(numSiblings - 1)
	}
	return created, nil
}
