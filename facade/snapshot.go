package facade

import (
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"

	"github.com/Architecto0r/SlotZero/engine"
)

// ExportSnapshot serializes the full engine state to snappy-compressed
// JSON, suitable for writing to a file or transferring between processes.
func (f *Facade) ExportSnapshot() ([]byte, error) {
	state := f.eng.ExportState()
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return snappy.Encode(nil, raw), nil
}

// ImportSnapshot replaces the engine's state with the contents of data, as
// produced by ExportSnapshot.
func (f *Facade) ImportSnapshot(data []byte) error {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}
	var state engine.SnapshotState
	if err := json.Unmarshal(raw, &state); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if err := f.eng.ImportState(state); err != nil {
		return err
	}
	f.log.Info("snapshot imported", "slot", state.CurrentSlot, "blocks", len(state.Blocks))
	return nil
}
