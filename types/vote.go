package types

// VoteEvent is a pending vote delivery. Vote events are plain value
// records, never mutated after creation, only created and consumed.
type VoteEvent struct {
	DeliverSlot uint64
	Validator   ValidatorID
	BlockID     BlockID
	OriginSlot  uint64
}
