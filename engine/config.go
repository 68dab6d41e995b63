package engine

import "github.com/Architecto0r/SlotZero/types"

// validateConfig enforces the config record's range constraints:
// QUORUM_RATIO in (0, 1], MAX_DELAY_SLOTS in [0, 64], FORK_ATTACK_PROB in [0, 1].
func validateConfig(cfg types.Config) error {
	if cfg.NumValidators == 0 {
		return invalidConfigf("num_validators must be positive")
	}
	if cfg.QuorumRatio <= 0 || cfg.QuorumRatio > 1 {
		return invalidConfigf("quorum_ratio %v out of range (0, 1]", cfg.QuorumRatio)
	}
	if cfg.MaxDelaySlots > 64 {
		return invalidConfigf("max_delay_slots %d out of range [0, 64]", cfg.MaxDelaySlots)
	}
	if cfg.ForkAttackProb < 0 || cfg.ForkAttackProb > 1 {
		return invalidConfigf("fork_attack_prob %v out of range [0, 1]", cfg.ForkAttackProb)
	}
	return nil
}

// ConfigUpdate is the subset of config fields a caller may update.
// Nil fields are left unchanged.
type ConfigUpdate struct {
	MaxDelaySlots  *uint64
	ForkAttackProb *float64
	QuorumRatio    *float64
}

// UpdateConfig applies any subset of {max_delay_slots, fork_attack_prob,
// quorum_ratio}, validating the resulting record before committing it.
// Lowering quorum_ratio may finalize additional blocks at the next sweep,
// but it does not itself trigger a sweep.
func (e *Engine) UpdateConfig(u ConfigUpdate) (types.Config, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.cfg
	if u.MaxDelaySlots != nil {
		next.MaxDelaySlots = *u.MaxDelaySlots
	}
	if u.ForkAttackProb != nil {
		next.ForkAttackProb = *u.ForkAttackProb
	}
	if u.QuorumRatio != nil {
		next.QuorumRatio = *u.QuorumRatio
	}

	if err := validateConfig(next); err != nil {
		return types.Config{}, err
	}
	e.cfg = next
	return e.cfg, nil
}
