package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Architecto0r/SlotZero/facade"
	"github.com/Architecto0r/SlotZero/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.NumValidators = 5
	cfg.MaxDelaySlots = 0
	f, err := facade.New(cfg)
	require.NoError(t, err)
	return NewServer(f)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestStatusReturnsInitialState(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint64(0), resp.CurrentSlot)
	require.Len(t, resp.Validators, 5)
}

func TestSimulateSlotAdvancesState(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/simulate_slot", map[string]interface{}{"attack": false})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp simulateSlotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint64(1), resp.Slot)
	require.Len(t, resp.CreatedBlocks, 1)
}

func TestToggleFaultValidatesID(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/toggle_fault", map[string]interface{}{"id": 999})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/toggle_fault", map[string]interface{}{"id": 0})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestConfigGetAndPost(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/config", map[string]interface{}{"max_delay_slots": 3})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	cfg := body["config"].(map[string]interface{})
	require.Equal(t, float64(3), cfg["MAX_DELAY_SLOTS"])
}

func TestSimulateAttackDefaultsToFiveSlots(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/simulate_attack", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, float64(5), body["ran"])
}

func TestResetClearsState(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/simulate_slot", map[string]interface{}{"attack": false})

	rec := doJSON(t, s, http.MethodPost, "/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/status", nil)
	var resp statusDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint64(0), resp.CurrentSlot)
}
