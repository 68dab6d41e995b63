package engine

import (
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/Architecto0r/SlotZero/types"
)

// SnapshotState is a fully exported copy of engine state, suitable for
// JSON marshaling. It is the transfer format behind facade snapshot
// export/import; nothing in it aliases engine-owned memory.
type SnapshotState struct {
	RunID        uuid.UUID
	Config       types.Config
	CurrentSlot  uint64
	Metrics      types.Metrics
	Validators   []types.Validator
	Blocks       []types.Block
	BlocksInSlot map[uint64][]types.BlockID
	PendingVotes []types.VoteEvent
}

// ExportState returns a deep copy of every piece of engine state.
//
// The pending RNG stream position is not captured: an imported engine
// reseeds math/rand from Config.RandomSeed rather than resuming mid-stream,
// since math/rand.Rand exposes no portable way to serialize its internal
// state. A run resumed from a snapshot therefore replays future draws from
// the seed's start, not from where the exporting run left off.
func (e *Engine) ExportState() SnapshotState {
	e.mu.Lock()
	defer e.mu.Unlock()

	validators := make([]types.Validator, len(e.registry.validators))
	for i, v := range e.registry.validators {
		validators[i] = *v
		if v.LatestMessage != nil {
			lm := *v.LatestMessage
			validators[i].LatestMessage = &lm
		}
	}

	blocks := make([]types.Block, 0, len(e.tree.blocks))
	for _, b := range e.tree.blocks {
		cp := *b
		cp.VotesReceived = make(map[types.ValidatorID]struct{}, len(b.VotesReceived))
		for id := range b.VotesReceived {
			cp.VotesReceived[id] = struct{}{}
		}
		blocks = append(blocks, cp)
	}
	// Sorted by (slot, id) so a re-import rebuilds children in the same
	// relative order addBlock originally produced them.
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].Slot != blocks[j].Slot {
			return blocks[i].Slot < blocks[j].Slot
		}
		return blocks[i].ID < blocks[j].ID
	})

	blocksInSlot := make(map[uint64][]types.BlockID, len(e.tree.blocksInSlot))
	for slot, ids := range e.tree.blocksInSlot {
		cp := make([]types.BlockID, len(ids))
		copy(cp, ids)
		blocksInSlot[slot] = cp
	}

	return SnapshotState{
		RunID:        e.RunID,
		Config:       e.cfg,
		CurrentSlot:  e.currentSlot,
		Metrics:      e.metrics,
		Validators:   validators,
		Blocks:       blocks,
		BlocksInSlot: blocksInSlot,
		PendingVotes: e.queue.pending(),
	}
}

// ImportState replaces every piece of engine state with s. It validates
// s.Config before committing anything.
func (e *Engine) ImportState(s SnapshotState) error {
	if err := validateConfig(s.Config); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.RunID = s.RunID
	e.cfg = s.Config
	e.currentSlot = s.CurrentSlot
	e.metrics = s.Metrics
	e.rng = rand.New(rand.NewSource(s.Config.RandomSeed))
	e.headCache = newHeadCache()

	validators := make([]*types.Validator, len(s.Validators))
	for i, v := range s.Validators {
		cp := v
		validators[i] = &cp
	}
	e.registry = &registry{validators: validators}

	tree := &blockTree{
		blocks:       make(map[types.BlockID]*types.Block, len(s.Blocks)),
		blocksInSlot: make(map[uint64][]types.BlockID, len(s.BlocksInSlot)),
		children:     make(map[types.BlockID][]types.BlockID),
	}
	for i := range s.Blocks {
		b := s.Blocks[i]
		tree.blocks[b.ID] = &b
		if b.ID != types.GenesisID {
			tree.children[b.Parent] = append(tree.children[b.Parent], b.ID)
		}
	}
	for slot, ids := range s.BlocksInSlot {
		cp := make([]types.BlockID, len(ids))
		copy(cp, ids)
		tree.blocksInSlot[slot] = cp
	}
	e.tree = tree

	q := newVoteQueue()
	q.events = append(q.events, s.PendingVotes...)
	e.queue = q

	return nil
}
