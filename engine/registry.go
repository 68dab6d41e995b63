package engine

import "github.com/Architecto0r/SlotZero/types"

// registry is the validator registry. All mutation is serialized by
// the engine-global lock; there is no per-validator lock.
type registry struct {
	validators []*types.Validator
}

// newRegistry returns a registry of n validators with sequential ids, all
// flags false, and an empty latest message.
func newRegistry(n uint64) *registry {
	vs := make([]*types.Validator, n)
	for i := range vs {
		vs[i] = &types.Validator{ID: types.ValidatorID(i)}
	}
	return &registry{validators: vs}
}

func (r *registry) len() uint64 {
	return uint64(len(r.validators))
}

func (r *registry) inRange(id types.ValidatorID) bool {
	return uint64(id) < uint64(len(r.validators))
}

func (r *registry) get(id types.ValidatorID) *types.Validator {
	return r.validators[id]
}

// toggleFault flips the faulty flag for id, failing with ErrInvalidID if id
// is out of range.
func (r *registry) toggleFault(id types.ValidatorID) error {
	if !r.inRange(id) {
		return invalidIDf("validator id %d out of range [0, %d)", id, len(r.validators))
	}
	v := r.validators[id]
	v.Faulty = !v.Faulty
	return nil
}

// recordVote sets latest_message for id. The caller is trusted internal
// code (the vote-delivery step); id is assumed valid and this never fails.
func (r *registry) recordVote(id types.ValidatorID, slot uint64, block types.BlockID) {
	r.validators[id].LatestMessage = &types.LatestMessage{Slot: slot, BlockID: block}
}

// activeIDs returns the ids of validators that are neither faulty nor
// slashed, in ascending order.
func (r *registry) activeIDs() []types.ValidatorID {
	out := make([]types.ValidatorID, 0, len(r.validators))
	for _, v := range r.validators {
		if v.Active() {
			out = append(out, v.ID)
		}
	}
	return out
}

// allIDs returns every validator id, including faulty/slashed ones, in
// ascending order, used for proposer selection, which is
// unrelated to voting eligibility.
func (r *registry) allIDs() []types.ValidatorID {
	out := make([]types.ValidatorID, len(r.validators))
	for i, v := range r.validators {
		out[i] = v.ID
	}
	return out
}
