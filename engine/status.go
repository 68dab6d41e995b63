package engine

import "github.com/Architecto0r/SlotZero/types"

// BlockView is the read-only projection of a block exposed to callers.
type BlockView struct {
	ID         types.BlockID
	Slot       uint64
	Parent     types.BlockID
	Finalized  bool
	VotesCount int
	Proposer   *types.ValidatorID
}

// ValidatorView is the read-only projection of a validator exposed to
// callers.
type ValidatorView struct {
	ID            types.ValidatorID
	Faulty        bool
	Slashed       bool
	LatestMessage *types.LatestMessage
}

// PendingVote is the read-only projection of a queued vote event.
type PendingVote struct {
	DeliverSlot uint64
	Validator   types.ValidatorID
	BlockID     types.BlockID
}

// StatusView is a deep, read-only snapshot of engine state: nothing in it
// aliases engine-owned memory.
type StatusView struct {
	CurrentSlot  uint64
	CurrentEpoch uint64
	Validators   []ValidatorView
	Chain        map[types.BlockID]BlockView
	BlocksInSlot map[uint64][]types.BlockID
	Head         types.BlockID
	PendingVotes []PendingVote
	Metrics      types.Metrics
}

// Status returns a deep, read-only snapshot of the simulator state.
func (e *Engine) Status() StatusView {
	e.mu.Lock()
	defer e.mu.Unlock()

	validators := make([]ValidatorView, len(e.registry.validators))
	for i, v := range e.registry.validators {
		var lm *types.LatestMessage
		if v.LatestMessage != nil {
			copied := *v.LatestMessage
			lm = &copied
		}
		validators[i] = ValidatorView{ID: v.ID, Faulty: v.Faulty, Slashed: v.Slashed, LatestMessage: lm}
	}

	chain := make(map[types.BlockID]BlockView, len(e.tree.blocks))
	for id, b := range e.tree.blocks {
		var proposer *types.ValidatorID
		if b.HasProposer {
			p := b.Proposer
			proposer = &p
		}
		chain[id] = BlockView{
			ID:         b.ID,
			Slot:       b.Slot,
			Parent:     b.Parent,
			Finalized:  b.Finalized,
			VotesCount: b.VoteCount(),
			Proposer:   proposer,
		}
	}

	blocksInSlot := make(map[uint64][]types.BlockID, len(e.tree.blocksInSlot))
	for slot, ids := range e.tree.blocksInSlot {
		cp := make([]types.BlockID, len(ids))
		copy(cp, ids)
		blocksInSlot[slot] = cp
	}

	var pending []PendingVote
	for _, ev := range e.queue.pending() {
		pending = append(pending, PendingVote{DeliverSlot: ev.DeliverSlot, Validator: ev.Validator, BlockID: ev.BlockID})
	}

	return StatusView{
		CurrentSlot:  e.currentSlot,
		CurrentEpoch: e.currentEpochLocked(),
		Validators:   validators,
		Chain:        chain,
		BlocksInSlot: blocksInSlot,
		Head:         e.headLocked(),
		PendingVotes: pending,
		Metrics:      e.metrics,
	}
}

// MetricsView is the metrics response shape.
type MetricsView struct {
	CurrentSlot         uint64
	TotalBlocks         int
	TotalFinalized      int
	AvgVotesPerBlock    float64
	TotalForks          uint64
	TotalSlotsSimulated uint64
	TotalFinalizations  uint64
	QuorumSize          int
}

// Metrics returns the derived and cumulative metrics record.
func (e *Engine) Metrics() MetricsView {
	e.mu.Lock()
	defer e.mu.Unlock()

	totalBlocks := len(e.tree.blocks)
	totalFinalized := 0
	totalVotes := 0
	for _, b := range e.tree.blocks {
		if b.Finalized {
			totalFinalized++
		}
		totalVotes += b.VoteCount()
	}
	var avg float64
	if totalBlocks > 0 {
		avg = float64(totalVotes) / float64(totalBlocks)
	}

	return MetricsView{
		CurrentSlot:         e.currentSlot,
		TotalBlocks:         totalBlocks,
		TotalFinalized:      totalFinalized,
		AvgVotesPerBlock:    avg,
		TotalForks:          e.metrics.TotalForks,
		TotalSlotsSimulated: e.metrics.TotalSlotsSimulated,
		TotalFinalizations:  e.metrics.TotalFinalizations,
		QuorumSize:          quorum(e.cfg.NumValidators, e.cfg.QuorumRatio),
	}
}

// ToggleFault flips the faulty flag for id.
func (e *Engine) ToggleFault(id types.ValidatorID) (ValidatorView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.registry.toggleFault(id); err != nil {
		return ValidatorView{}, err
	}
	v := e.registry.get(id)
	var lm *types.LatestMessage
	if v.LatestMessage != nil {
		copied := *v.LatestMessage
		lm = &copied
	}
	return ValidatorView{ID: v.ID, Faulty: v.Faulty, Slashed: v.Slashed, LatestMessage: lm}, nil
}
