package engine

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Architecto0r/SlotZero/types"
)

// headCacheSize bounds the memoized head() results kept around. Only the
// current state version is ever looked up; entries for older versions are
// never read again and age out of the LRU.
const headCacheSize = 8

// headCache memoizes head() results behind a monotonic state-version
// counter. Any mutation that could change
// fork-choice weights (a new block, a newly recorded vote) bumps the
// version; toggling a fault flag does not, since fork choice counts a validator's
// latest message regardless of its flags.
type headCache struct {
	version uint64
	cache   *lru.Cache[uint64, types.BlockID]
}

func newHeadCache() *headCache {
	c, err := lru.New[uint64, types.BlockID](headCacheSize)
	if err != nil {
		// Only returned for a non-positive size, which headCacheSize never is.
		panic(err)
	}
	return &headCache{cache: c}
}

func (h *headCache) bump() {
	h.version++
}

func (h *headCache) get() (types.BlockID, bool) {
	return h.cache.Get(h.version)
}

func (h *headCache) put(id types.BlockID) {
	h.cache.Add(h.version, id)
}
