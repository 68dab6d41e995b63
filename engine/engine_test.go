package engine

import (
	"testing"

	"github.com/Architecto0r/SlotZero/types"
)

func testConfig(n, maxDelay uint64, attackProb float64) types.Config {
	return types.Config{
		NumValidators:  n,
		SlotsPerEpoch:  8,
		QuorumRatio:    2.0 / 3.0,
		MaxDelaySlots:  maxDelay,
		ForkAttackProb: attackProb,
		RandomSeed:     42,
	}
}

func mustNew(t *testing.T, cfg types.Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New(%+v) failed: %v", cfg, err)
	}
	return e
}

func TestZeroDelayUnanimousFinalization(t *testing.T) {
	e := mustNew(t, testConfig(19, 0, 0))

	res, err := e.Step(false)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if len(res.Created) != 1 {
		t.Fatalf("expected exactly one new block, got %d", len(res.Created))
	}

	id := res.Created[0]
	b, ok := e.tree.get(id)
	if !ok {
		t.Fatalf("created block %s not found in tree", id)
	}
	if b.Slot != 1 {
		t.Errorf("expected new block in slot 1, got slot %d", b.Slot)
	}
	if b.VoteCount() != 19 {
		t.Errorf("expected 19 votes, got %d", b.VoteCount())
	}
	if !b.Finalized {
		t.Errorf("expected block to be finalized")
	}
	if head := e.headLocked(); head != id {
		t.Errorf("expected head %s, got %s", id, head)
	}
}

func TestFaultyMinorityStillReachesQuorum(t *testing.T) {
	e := mustNew(t, testConfig(19, 0, 0))
	for i := types.ValidatorID(0); i <= 5; i++ {
		if _, err := e.ToggleFault(i); err != nil {
			t.Fatalf("ToggleFault(%d) failed: %v", i, err)
		}
	}

	res, err := e.Step(false)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	b, _ := e.tree.get(res.Created[0])
	if b.VoteCount() != 13 {
		t.Errorf("expected 13 votes, got %d", b.VoteCount())
	}
	if !b.Finalized {
		t.Errorf("expected block finalized at 13/19 votes")
	}
}

func TestFaultyMinorityBlocksQuorum(t *testing.T) {
	e := mustNew(t, testConfig(19, 0, 0))
	for i := types.ValidatorID(0); i <= 6; i++ {
		if _, err := e.ToggleFault(i); err != nil {
			t.Fatalf("ToggleFault(%d) failed: %v", i, err)
		}
	}

	res1, err := e.Step(false)
	if err != nil {
		t.Fatalf("Step 1 failed: %v", err)
	}
	b1, _ := e.tree.get(res1.Created[0])
	if b1.VoteCount() != 12 {
		t.Errorf("expected 12 votes, got %d", b1.VoteCount())
	}
	if b1.Finalized {
		t.Errorf("expected block not finalized at 12/19 votes")
	}

	res2, err := e.Step(false)
	if err != nil {
		t.Fatalf("Step 2 failed: %v", err)
	}
	if b1.Finalized {
		t.Errorf("earlier block must remain unfinalized")
	}
	b2, _ := e.tree.get(res2.Created[0])
	if b2.VoteCount() != 12 || b2.Finalized {
		t.Errorf("expected second block at 12 votes, not finalized; got votes=%d finalized=%v", b2.VoteCount(), b2.Finalized)
	}
}

func TestDelayedVotesFinalizeRetroactively(t *testing.T) {
	e := mustNew(t, testConfig(19, 2, 0))

	res1, err := e.Step(false)
	if err != nil {
		t.Fatalf("Step 1 failed: %v", err)
	}
	if _, err := e.Step(false); err != nil {
		t.Fatalf("Step 2 failed: %v", err)
	}
	if _, err := e.Step(false); err != nil {
		t.Fatalf("Step 3 failed: %v", err)
	}

	for _, id := range res1.Created {
		b, _ := e.tree.get(id)
		if !b.Finalized {
			t.Errorf("block %s from slot 1 must be finalized by slot 3, has %d votes", id, b.VoteCount())
		}
	}
}

func TestForkAttackPreservesSingleHead(t *testing.T) {
	e := mustNew(t, testConfig(19, 0, 1.0))

	res, err := e.Step(true)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if len(res.Created) < 2 || len(res.Created) > 3 {
		t.Fatalf("expected 2-3 sibling blocks, got %d", len(res.Created))
	}
	if e.metrics.TotalForks != uint64(len(res.Created)-1) {
		t.Errorf("expected total_forks = %d, got %d", len(res.Created)-1, e.metrics.TotalForks)
	}

	head := e.headLocked()
	found := false
	for _, id := range res.Created {
		if id == head {
			found = true
		}
	}
	if !found {
		t.Errorf("head %s is not one of the created siblings %v", head, res.Created)
	}
}

func TestResetIsTotal(t *testing.T) {
	e := mustNew(t, testConfig(19, 2, 0.2))
	if _, err := e.Step(true); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if _, err := e.Step(true); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	e.Reset()

	if e.currentSlot != 0 {
		t.Errorf("expected slot 0 after reset, got %d", e.currentSlot)
	}
	if len(e.tree.blocks) != 1 {
		t.Errorf("expected only genesis after reset, got %d blocks", len(e.tree.blocks))
	}
	if len(e.queue.pending()) != 0 {
		t.Errorf("expected empty vote queue after reset")
	}
	if e.metrics != (types.Metrics{}) {
		t.Errorf("expected zeroed metrics after reset, got %+v", e.metrics)
	}
}

func TestQuorumBoundary(t *testing.T) {
	if q := quorum(19, 2.0/3.0); q != 13 {
		t.Errorf("expected quorum(19, 2/3) = 13, got %d", q)
	}
}

func TestDeterminismGivenIdenticalSeed(t *testing.T) {
	cfg := testConfig(19, 2, 0.3)
	e1 := mustNew(t, cfg)
	e2 := mustNew(t, cfg)

	for i := 0; i < 10; i++ {
		r1, err1 := e1.Step(true)
		r2, err2 := e2.Step(true)
		if err1 != nil || err2 != nil {
			t.Fatalf("step %d errored: %v, %v", i, err1, err2)
		}
		if len(r1.Created) != len(r2.Created) {
			t.Fatalf("step %d: created block count diverged: %d vs %d", i, len(r1.Created), len(r2.Created))
		}
		for j := range r1.Created {
			if r1.Created[j] != r2.Created[j] {
				t.Fatalf("step %d: created[%d] diverged: %s vs %s", i, j, r1.Created[j], r2.Created[j])
			}
		}
	}

	if e1.headLocked() != e2.headLocked() {
		t.Errorf("head diverged between identically seeded runs")
	}

	p1, p2 := e1.queue.pending(), e2.queue.pending()
	if len(p1) != len(p2) {
		t.Fatalf("pending vote queue length diverged: %d vs %d", len(p1), len(p2))
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Errorf("pending vote %d diverged: %+v vs %+v", i, p1[i], p2[i])
		}
	}
}

func TestForkChoiceWeightFollowsUnanimousLatestMessages(t *testing.T) {
	e := mustNew(t, testConfig(4, 0, 0))

	childID, err := e.tree.addBlock(1, types.GenesisID, 0)
	if err != nil {
		t.Fatalf("addBlock failed: %v", err)
	}
	grandchildID, err := e.tree.addBlock(2, childID, 1)
	if err != nil {
		t.Fatalf("addBlock failed: %v", err)
	}

	for _, v := range e.registry.activeIDs() {
		e.registry.recordVote(v, 2, grandchildID)
		e.tree.recordVote(grandchildID, v)
	}
	e.headCache.bump()

	head := e.headLocked()
	subtree := e.tree.subtree(childID)
	if _, inSubtree := subtree[head]; !inSubtree {
		t.Errorf("expected head %s inside subtree rooted at %s", head, childID)
	}
}

func TestVoteRemappingToUnknownTarget(t *testing.T) {
	e := mustNew(t, testConfig(4, 0, 0))
	if _, err := e.Step(false); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	e.queue.enqueue(types.VoteEvent{DeliverSlot: e.currentSlot, Validator: 0, BlockID: "999:0", OriginSlot: e.currentSlot})
	applied := e.drainAndApplyLocked()

	if len(applied) != 1 {
		t.Fatalf("expected one applied vote, got %d", len(applied))
	}
	if applied[0].BlockID != e.tree.greatestBlock() {
		t.Errorf("expected remapped vote to target greatestBlock, got %s", applied[0].BlockID)
	}
}

func TestDuplicateVoteDeliveryIsIdempotent(t *testing.T) {
	e := mustNew(t, testConfig(4, 0, 0))
	id, err := e.tree.addBlock(1, types.GenesisID, 0)
	if err != nil {
		t.Fatalf("addBlock failed: %v", err)
	}

	e.tree.recordVote(id, 0)
	e.tree.recordVote(id, 0)

	b, _ := e.tree.get(id)
	if b.VoteCount() != 1 {
		t.Errorf("expected duplicate delivery to be idempotent, got vote count %d", b.VoteCount())
	}
}

func TestToggleFaultRejectsOutOfRangeID(t *testing.T) {
	e := mustNew(t, testConfig(4, 0, 0))
	if _, err := e.ToggleFault(99); err == nil {
		t.Errorf("expected error toggling out-of-range validator id")
	}
}

func TestUpdateConfigRejectsOutOfRangeValues(t *testing.T) {
	e := mustNew(t, testConfig(4, 0, 0))
	bad := 1.5
	if _, err := e.UpdateConfig(ConfigUpdate{QuorumRatio: &bad}); err == nil {
		t.Errorf("expected error for quorum_ratio out of (0, 1]")
	}
}
