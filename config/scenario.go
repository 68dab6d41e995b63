package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Architecto0r/SlotZero/types"
)

// rawScenario is the on-disk YAML shape: every field optional, overriding
// types.DefaultConfig() only where present.
type rawScenario struct {
	NumValidators  *uint64  `yaml:"num_validators"`
	SlotsPerEpoch  *uint64  `yaml:"slots_per_epoch"`
	QuorumRatio    *float64 `yaml:"quorum_ratio"`
	MaxDelaySlots  *uint64  `yaml:"max_delay_slots"`
	ForkAttackProb *float64 `yaml:"fork_attack_prob"`
	RandomSeed     *int64   `yaml:"random_seed"`
}

// LoadScenario loads a scenario YAML file and layers it over the default
// configuration. A path of "" returns the defaults unmodified.
func LoadScenario(path string) (types.Config, error) {
	cfg := types.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.Config{}, fmt.Errorf("read scenario: %w", err)
	}

	var raw rawScenario
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return types.Config{}, fmt.Errorf("parse scenario: %w", err)
	}

	if raw.NumValidators != nil {
		cfg.NumValidators = *raw.NumValidators
	}
	if raw.SlotsPerEpoch != nil {
		cfg.SlotsPerEpoch = *raw.SlotsPerEpoch
	}
	if raw.QuorumRatio != nil {
		cfg.QuorumRatio = *raw.QuorumRatio
	}
	if raw.MaxDelaySlots != nil {
		cfg.MaxDelaySlots = *raw.MaxDelaySlots
	}
	if raw.ForkAttackProb != nil {
		cfg.ForkAttackProb = *raw.ForkAttackProb
	}
	if raw.RandomSeed != nil {
		cfg.RandomSeed = *raw.RandomSeed
	}

	return cfg, nil
}
