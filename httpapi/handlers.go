package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/Architecto0r/SlotZero/engine"
	"github.com/Architecto0r/SlotZero/types"
)

type blockViewDTO struct {
	ID         types.BlockID      `json:"id"`
	Slot       uint64             `json:"slot"`
	Parent     types.BlockID      `json:"parent"`
	Finalized  bool               `json:"finalized"`
	VotesCount int                `json:"votes_count"`
	Proposer   *types.ValidatorID `json:"proposer"`
}

type validatorViewDTO struct {
	ID            types.ValidatorID    `json:"id"`
	Faulty        bool                 `json:"faulty"`
	Slashed       bool                 `json:"slashed"`
	LatestMessage *types.LatestMessage `json:"latest_message"`
}

type pendingVoteDTO struct {
	DeliverSlot uint64            `json:"deliver_slot"`
	Validator   types.ValidatorID `json:"validator"`
	BlockID     types.BlockID     `json:"block_id"`
}

type statusDTO struct {
	CurrentSlot  uint64                         `json:"current_slot"`
	CurrentEpoch uint64                         `json:"current_epoch"`
	Validators   []validatorViewDTO             `json:"validators"`
	Chain        map[types.BlockID]blockViewDTO `json:"chain"`
	BlocksInSlot map[uint64][]types.BlockID     `json:"blocks_in_slot"`
	Head         types.BlockID                  `json:"head"`
	PendingVotes []pendingVoteDTO               `json:"pending_votes"`
	Metrics      types.Metrics                  `json:"metrics"`
}

func toStatusDTO(v engine.StatusView) statusDTO {
	validators := make([]validatorViewDTO, len(v.Validators))
	for i, vv := range v.Validators {
		validators[i] = validatorViewDTO{ID: vv.ID, Faulty: vv.Faulty, Slashed: vv.Slashed, LatestMessage: vv.LatestMessage}
	}
	chain := make(map[types.BlockID]blockViewDTO, len(v.Chain))
	for id, b := range v.Chain {
		chain[id] = blockViewDTO{ID: b.ID, Slot: b.Slot, Parent: b.Parent, Finalized: b.Finalized, VotesCount: b.VotesCount, Proposer: b.Proposer}
	}
	pending := make([]pendingVoteDTO, len(v.PendingVotes))
	for i, p := range v.PendingVotes {
		pending[i] = pendingVoteDTO{DeliverSlot: p.DeliverSlot, Validator: p.Validator, BlockID: p.BlockID}
	}
	return statusDTO{
		CurrentSlot:  v.CurrentSlot,
		CurrentEpoch: v.CurrentEpoch,
		Validators:   validators,
		Chain:        chain,
		BlocksInSlot: v.BlocksInSlot,
		Head:         v.Head,
		PendingVotes: pending,
		Metrics:      v.Metrics,
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStatusDTO(s.f.Status()))
}

type simulateSlotRequest struct {
	Attack bool `json:"attack"`
}

type appliedVoteDTO struct {
	Validator types.ValidatorID `json:"validator"`
	BlockID   types.BlockID     `json:"block_id"`
}

type simulateSlotResponse struct {
	Slot          uint64           `json:"slot"`
	CreatedBlocks []types.BlockID  `json:"created_blocks"`
	AppliedVotes  []appliedVoteDTO `json:"applied_votes"`
}

func (s *Server) handleSimulateSlot(w http.ResponseWriter, r *http.Request) {
	var req simulateSlotRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	result, err := s.stepOnce(req.Attack)
	if err != nil {
		s.log.Error("simulate_slot failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toSimulateSlotResponse(result))
}

// stepOnce runs a single slot through the facade and returns the raw
// engine result for DTO conversion; attack mode is only reachable from
// /simulate_attack through facade.SimulateAttack, so /simulate_slot with
// attack=true runs one attack-mode step directly via a one-iteration batch.
func (s *Server) stepOnce(attack bool) (engine.StepResult, error) {
	if !attack {
		r, err := s.f.Step()
		if err != nil {
			return engine.StepResult{}, err
		}
		return engine.StepResult{Slot: r.Slot, Created: r.Created, AppliedVotes: r.AppliedVotes}, nil
	}
	batch, err := s.f.SimulateAttack(1)
	if err != nil {
		return engine.StepResult{}, err
	}
	r := batch.Steps[0]
	return engine.StepResult{Slot: r.Slot, Created: r.Created, AppliedVotes: r.AppliedVotes}, nil
}

func toSimulateSlotResponse(r engine.StepResult) simulateSlotResponse {
	votes := make([]appliedVoteDTO, len(r.AppliedVotes))
	for i, v := range r.AppliedVotes {
		votes[i] = appliedVoteDTO{Validator: v.Validator, BlockID: v.BlockID}
	}
	created := r.Created
	if created == nil {
		created = []types.BlockID{}
	}
	return simulateSlotResponse{Slot: r.Slot, CreatedBlocks: created, AppliedVotes: votes}
}

type toggleFaultRequest struct {
	ID *int `json:"id"`
}

func (s *Server) handleToggleFault(w http.ResponseWriter, r *http.Request) {
	var req toggleFaultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == nil || *req.ID < 0 {
		writeError(w, http.StatusBadRequest, engine.ErrInvalidID)
		return
	}

	v, err := s.f.ToggleFault(types.ValidatorID(*req.ID))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":        true,
		"validator": validatorViewDTO{ID: v.ID, Faulty: v.Faulty, Slashed: v.Slashed, LatestMessage: v.LatestMessage},
	})
}

type metricsDTO struct {
	CurrentSlot         uint64  `json:"current_slot"`
	TotalBlocks         int     `json:"total_blocks"`
	TotalFinalized      int     `json:"total_finalized"`
	AvgVotesPerBlock    float64 `json:"avg_votes_per_block"`
	TotalForks          uint64  `json:"total_forks"`
	TotalSlotsSimulated uint64  `json:"total_slots_simulated"`
	TotalFinalizations  uint64  `json:"total_finalizations"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := s.f.Metrics()
	writeJSON(w, http.StatusOK, metricsDTO{
		CurrentSlot:         m.CurrentSlot,
		TotalBlocks:         m.TotalBlocks,
		TotalFinalized:      m.TotalFinalized,
		AvgVotesPerBlock:    m.AvgVotesPerBlock,
		TotalForks:          m.TotalForks,
		TotalSlotsSimulated: m.TotalSlotsSimulated,
		TotalFinalizations:  m.TotalFinalizations,
	})
}

type configGetDTO struct {
	NumValidators  uint64  `json:"NUM_VALIDATORS"`
	SlotsPerEpoch  uint64  `json:"SLOTS_PER_EPOCH"`
	QuorumRatio    float64 `json:"QUORUM_RATIO"`
	MaxDelaySlots  uint64  `json:"MAX_DELAY_SLOTS"`
	ForkAttackProb float64 `json:"FORK_ATTACK_PROB"`
}

func (s *Server) handleConfigGet(w http.ResponseWriter, r *http.Request) {
	cfg := s.f.Config()
	writeJSON(w, http.StatusOK, configGetDTO{
		NumValidators:  cfg.NumValidators,
		SlotsPerEpoch:  cfg.SlotsPerEpoch,
		QuorumRatio:    cfg.QuorumRatio,
		MaxDelaySlots:  cfg.MaxDelaySlots,
		ForkAttackProb: cfg.ForkAttackProb,
	})
}

type configPostRequest struct {
	MaxDelaySlots  *uint64  `json:"max_delay_slots"`
	ForkAttackProb *float64 `json:"fork_attack_prob"`
	QuorumRatio    *float64 `json:"quorum_ratio"`
}

func (s *Server) handleConfigPost(w http.ResponseWriter, r *http.Request) {
	var req configPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg, err := s.f.UpdateConfig(engine.ConfigUpdate{
		MaxDelaySlots:  req.MaxDelaySlots,
		ForkAttackProb: req.ForkAttackProb,
		QuorumRatio:    req.QuorumRatio,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok": true,
		"config": map[string]interface{}{
			"MAX_DELAY_SLOTS":  cfg.MaxDelaySlots,
			"FORK_ATTACK_PROB": cfg.ForkAttackProb,
			"QUORUM_RATIO":     cfg.QuorumRatio,
		},
	})
}

type simulateAttackRequest struct {
	Slots *int `json:"slots"`
}

func (s *Server) handleSimulateAttack(w http.ResponseWriter, r *http.Request) {
	var req simulateAttackRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	n := 5
	if req.Slots != nil {
		n = *req.Slots
	}

	batch, err := s.f.SimulateAttack(n)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	results := make([]simulateSlotResponse, len(batch.Steps))
	for i, step := range batch.Steps {
		results[i] = toSimulateSlotResponse(engine.StepResult{Slot: step.Slot, Created: step.Created, AppliedVotes: step.AppliedVotes})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ran":     n,
		"results": results,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.f.Reset()
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

