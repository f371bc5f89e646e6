package ledgerclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reecen9696/casino-rollup/internal/domain"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := New(Config{RetryAttempts: 0, RetryDelay: 0})
	c.endpoint = server.URL

	return c, server
}

func rpcOK(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()

	body, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": 1, "result": result})
	require.NoError(t, err)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func TestClient_Submit(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		rpcOK(t, w, "sig-123")
	})

	data := domain.BatchSettlementData{BatchID: 1, SequencerNonce: 1}
	txID, err := c.Submit(context.Background(), data, []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "sig-123", txID)
}

func TestClient_HealthCheck(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		rpcOK(t, w, "ok")
	})

	require.NoError(t, c.HealthCheck(context.Background()))
}

func TestClient_IsConfirmed(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		rpcOK(t, w, map[string]any{
			"value": []map[string]any{
				{"confirmationStatus": "confirmed", "err": nil},
			},
		})
	})

	confirmed, err := c.IsConfirmed(context.Background(), "sig-123")
	require.NoError(t, err)
	assert.True(t, confirmed)
}

func TestClient_Reconcile_FlagsMismatch(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		rpcOK(t, w, map[string]any{
			"value": []map[string]any{
				{"confirmationStatus": "confirmed", "err": nil},
			},
		})
	})

	batches := []domain.SettlementBatch{
		{BatchID: 1, Status: domain.BatchSubmitted, TransactionID: "sig-123"},
	}

	report := c.Reconcile(context.Background(), batches)
	assert.Equal(t, 1, report.Checked)
	assert.Equal(t, 1, report.Confirmed)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, "confirmed on ledger but not locally", report.Discrepancies[0].Discrepancy)
}

func TestClient_Reconcile_SkipsBatchesWithoutTransactionID(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		rpcOK(t, w, "unused")
	})

	batches := []domain.SettlementBatch{{BatchID: 1, Status: domain.BatchPending}}

	report := c.Reconcile(context.Background(), batches)
	assert.Equal(t, 0, report.Checked)
}

func TestClient_Balance_RejectsInvalidAddress(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		rpcOK(t, w, map[string]any{"value": 100})
	})

	_, err := c.Balance(context.Background(), "not-valid-base58-!!!")
	require.Error(t, err)
}
