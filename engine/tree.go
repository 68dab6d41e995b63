package engine

import (
	"fmt"

	"github.com/Architecto0r/SlotZero/types"
)

// blockTree stores blocks keyed by opaque id and tracks parent/children and
// per-slot buckets. All mutation is serialized by the engine lock.
type blockTree struct {
	blocks       map[types.BlockID]*types.Block
	blocksInSlot map[uint64][]types.BlockID
	children     map[types.BlockID][]types.BlockID
}

func newBlockTree() *blockTree {
	t := &blockTree{
		blocks:       make(map[types.BlockID]*types.Block),
		blocksInSlot: make(map[uint64][]types.BlockID),
		children:     make(map[types.BlockID][]types.BlockID),
	}
	genesis := types.NewGenesisBlock()
	t.blocks[genesis.ID] = genesis
	t.blocksInSlot[0] = []types.BlockID{genesis.ID}
	return t
}

// addBlock allocates index = |blocks_in_slot[slot]|, forms id "{slot}:{index}",
// and inserts it as a child of parentID. Fails with ErrUnknownParent if
// parentID is neither "genesis" nor an existing id.
func (t *blockTree) addBlock(slot uint64, parentID types.BlockID, proposer types.ValidatorID) (types.BlockID, error) {
	if !t.contains(parentID) {
		return "", unknownParentf("parent block %q does not exist", parentID)
	}

	idx := len(t.blocksInSlot[slot])
	id := types.BlockID(fmt.Sprintf("%d:%d", slot, idx))

	block := &types.Block{
		ID:            id,
		Slot:          slot,
		Parent:        parentID,
		Proposer:      proposer,
		HasProposer:   true,
		VotesReceived: make(map[types.ValidatorID]struct{}),
	}

	t.blocks[id] = block
	t.blocksInSlot[slot] = append(t.blocksInSlot[slot], id)
	t.children[parentID] = append(t.children[parentID], id)

	return id, nil
}

func (t *blockTree) contains(id types.BlockID) bool {
	_, ok := t.blocks[id]
	return ok
}

func (t *blockTree) get(id types.BlockID) (*types.Block, bool) {
	b, ok := t.blocks[id]
	return b, ok
}

// childrenOf returns the direct children of id in deterministic insertion
// order: insertion order per slot, slots ascending.
func (t *blockTree) childrenOf(id types.BlockID) []types.BlockID {
	return t.children[id]
}

// ancestors returns id, its parent, ... up to and including genesis,
// newest-first.
func (t *blockTree) ancestors(id types.BlockID) []types.BlockID {
	var out []types.BlockID
	cur := id
	for {
		b, ok := t.blocks[cur]
		if !ok {
			break
		}
		out = append(out, cur)
		if cur == types.GenesisID {
			break
		}
		cur = b.Parent
	}
	return out
}

// subtree returns root plus all descendants, as a set.
func (t *blockTree) subtree(root types.BlockID) map[types.BlockID]struct{} {
	out := make(map[types.BlockID]struct{})
	var walk func(types.BlockID)
	walk = func(id types.BlockID) {
		if _, seen := out[id]; seen {
			return
		}
		out[id] = struct{}{}
		for _, c := range t.children[id] {
			walk(c)
		}
	}
	walk(root)
	return out
}

// recordVote adds validator id to the block's votes_received set. Duplicate
// deliveries are silently idempotent.
func (t *blockTree) recordVote(id types.BlockID, validator types.ValidatorID) {
	t.blocks[id].VotesReceived[validator] = struct{}{}
}

// greatestBlock returns the id with the greatest (slot, id) lexicographic
// pair across the entire tree, used by the vote-delivery remapping rule.
// Returns GenesisID if the tree somehow holds nothing (impossible
// post-genesis, but defensive against an empty tree value).
func (t *blockTree) greatestBlock() types.BlockID {
	if len(t.blocks) == 0 {
		return types.GenesisID
	}
	var best *types.Block
	for _, b := range t.blocks {
		if best == nil || b.Slot > best.Slot || (b.Slot == best.Slot && b.ID > best.ID) {
			best = b
		}
	}
	return best.ID
}

// allIDs returns every block id currently in the tree, unordered.
func (t *blockTree) allIDs() []types.BlockID {
	out := make([]types.BlockID, 0, len(t.blocks))
	for id := range t.blocks {
		out = append(out, id)
	}
	return out
}
