// Package facade is the single entry point external callers use to drive
// an engine.Engine: one typed request/response pair per operation in the
// reference interface, plus snapshot export/import for persisting a run
// across process restarts. It owns no state of its own beyond the engine
// it wraps and a logger.
package facade

import (
	"log/slog"
	"time"

	"github.com/Architecto0r/SlotZero/engine"
	"github.com/Architecto0r/SlotZero/observability/logging"
	"github.com/Architecto0r/SlotZero/observability/metrics"
	"github.com/Architecto0r/SlotZero/types"
)

// version is reported on the run_info gauge, mirroring the teacher's
// node/lifecycle.go startMetrics stamping a build version at startup.
const version = "v0.1.0"

// Facade wraps an *engine.Engine with the external operation surface.
type Facade struct {
	eng *engine.Engine
	log *slog.Logger
}

// New constructs a Facade around a freshly created engine.
func New(cfg types.Config) (*Facade, error) {
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}
	f := &Facade{eng: eng, log: logging.NewComponentLogger(logging.CompFacade)}
	metrics.RunInfo.WithLabelValues(eng.RunID.String(), version).Set(1)
	f.publishMetrics()
	return f, nil
}

// publishMetrics feeds the current engine state into the package-level
// Prometheus gauges, in the teacher's node/ticker.go style of pushing a
// fresh reading after every state-changing call rather than computing
// gauges lazily on scrape.
func (f *Facade) publishMetrics() {
	status := f.eng.Status()
	m := f.eng.Metrics()

	metrics.CurrentSlot.Set(float64(status.CurrentSlot))
	if head, ok := status.Chain[status.Head]; ok {
		metrics.HeadSlot.Set(float64(head.Slot))
	}
	metrics.TotalForks.Set(float64(m.TotalForks))
	metrics.TotalFinalizations.Set(float64(m.TotalFinalizations))
	metrics.PendingVotes.Set(float64(len(status.PendingVotes)))
	metrics.QuorumSize.Set(float64(m.QuorumSize))
}

// Status returns the current read-only state snapshot.
func (f *Facade) Status() engine.StatusView {
	return f.eng.Status()
}

// Metrics returns the derived and cumulative metrics record.
func (f *Facade) Metrics() engine.MetricsView {
	return f.eng.Metrics()
}

// StepResponse is the result of advancing the simulation by one slot.
type StepResponse struct {
	Slot         uint64
	Created      []types.BlockID
	AppliedVotes []engine.AppliedVote
}

// Step advances the simulation by a single slot.
func (f *Facade) Step() (StepResponse, error) {
	start := time.Now()
	r, err := f.eng.Step(false)
	metrics.StepDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		f.log.Error("step failed", "err", err)
		return StepResponse{}, err
	}
	f.publishMetrics()
	f.log.Info("step applied", "slot", r.Slot, "created", len(r.Created), "votes_applied", len(r.AppliedVotes))
	return StepResponse{Slot: r.Slot, Created: r.Created, AppliedVotes: r.AppliedVotes}, nil
}

// SimulateAttackResponse is the result of running n slots under attack mode.
type SimulateAttackResponse struct {
	Steps []StepResponse
}

// SimulateAttack runs n consecutive steps with attack mode enabled. Each
// step remains individually atomic; the batch as a whole is not — a caller
// observing status mid-batch can see a partial prefix of steps applied.
func (f *Facade) SimulateAttack(n int) (SimulateAttackResponse, error) {
	if n < 0 {
		return SimulateAttackResponse{}, engine.ErrInvalidConfig
	}
	out := make([]StepResponse, 0, n)
	for i := 0; i < n; i++ {
		start := time.Now()
		r, err := f.eng.Step(true)
		metrics.StepDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			return SimulateAttackResponse{}, err
		}
		f.publishMetrics()
		out = append(out, StepResponse{Slot: r.Slot, Created: r.Created, AppliedVotes: r.AppliedVotes})
	}
	f.log.Info("attack simulation complete", "steps", n)
	return SimulateAttackResponse{Steps: out}, nil
}

// ToggleFault flips the faulty flag of a validator.
func (f *Facade) ToggleFault(id types.ValidatorID) (engine.ValidatorView, error) {
	v, err := f.eng.ToggleFault(id)
	if err != nil {
		f.log.Warn("toggle_fault rejected", "validator", id, "err", err)
		return engine.ValidatorView{}, err
	}
	f.log.Info("fault toggled", "validator", id, "faulty", v.Faulty)
	return v, nil
}

// Config returns the current configuration.
func (f *Facade) Config() types.Config {
	return f.eng.Config()
}

// UpdateConfig applies a partial configuration update.
func (f *Facade) UpdateConfig(u engine.ConfigUpdate) (types.Config, error) {
	cfg, err := f.eng.UpdateConfig(u)
	if err != nil {
		f.log.Warn("config update rejected", "err", err)
		return types.Config{}, err
	}
	f.log.Info("config updated",
		"max_delay_slots", cfg.MaxDelaySlots,
		"fork_attack_prob", cfg.ForkAttackProb,
		"quorum_ratio", cfg.QuorumRatio,
	)
	return cfg, nil
}

// Reset returns the simulation to a freshly initialized state.
func (f *Facade) Reset() {
	f.eng.Reset()
	metrics.RunInfo.WithLabelValues(f.eng.RunID.String(), version).Set(1)
	f.publishMetrics()
	f.log.Info("engine reset")
}
