// Package engine implements the SSF/LMD-GHOST consensus simulation core:
// the block tree, validator registry, vote-delivery queue,
// fork-choice, finalization rule, and the slot orchestrator that drives
// them, behind a single engine-global lock — the single-threaded
// cooperative model of gean's forkchoice.Store, generalized to a research
// simulator instead of a live consensus client.
package engine

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/Architecto0r/SlotZero/types"
)

// Engine is the process-wide simulator state. All
// externally reachable operations acquire mu for their entire duration;
// they are serialized and individually atomic.
type Engine struct {
	mu sync.Mutex

	RunID uuid.UUID

	cfg types.Config

	currentSlot uint64
	registry    *registry
	tree        *blockTree
	queue       *voteQueue
	headCache   *headCache
	metrics     types.Metrics

	rng *rand.Rand
}

// New constructs an engine from cfg, validated with validateConfig. The
// validator count is fixed at construction: Reset keeps the same N, and
// only ImportState replaces it with a snapshot's config.
func New(cfg types.Config) (*Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	e := &Engine{}
	e.initLocked(cfg)
	return e, nil
}

// initLocked (re)initializes every piece of engine state from cfg. Callers
// must hold mu, or call it only before the engine is shared (New, Reset).
func (e *Engine) initLocked(cfg types.Config) {
	e.RunID = uuid.New()
	e.cfg = cfg
	e.currentSlot = 0
	e.registry = newRegistry(cfg.NumValidators)
	e.tree = newBlockTree()
	e.queue = newVoteQueue()
	e.headCache = newHeadCache()
	e.metrics = types.Metrics{}
	e.rng = rand.New(rand.NewSource(cfg.RandomSeed))
}

// Reset returns the engine to a freshly initialized state with the same N.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initLocked(e.cfg)
}

// Config returns the current configuration record.
func (e *Engine) Config() types.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// currentEpochLocked derives the epoch from the current slot, which is
// never stored redundantly. Callers must hold mu.
func (e *Engine) currentEpochLocked() uint64 {
	if e.cfg.SlotsPerEpoch == 0 {
		return 0
	}
	return e.currentSlot / e.cfg.SlotsPerEpoch
}

// headLocked returns the canonical head, served from the memoized cache
// when nothing has changed fork-choice weights since the last computation.
// Callers must hold mu.
func (e *Engine) headLocked() types.BlockID {
	if id, ok := e.headCache.get(); ok {
		return id
	}
	id := computeHead(e.tree, e.registry)
	e.headCache.put(id)
	return id
}
