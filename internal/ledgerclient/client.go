// Package ledgerclient is C7: encodes settled batches as verifier-program
// instructions, submits them to the on-ledger RPC endpoint with bounded
// retry, and reconciles persisted batches against what the ledger reports.
package ledgerclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/reecen9696/casino-rollup/internal/domain"
)

const (
	localEndpoint  = "http://127.0.0.1:8899"
	publicEndpoint = "https://api.testnet.solana.com"
)

// Config carries the environment variables this client reads.
type Config struct {
	Enabled        bool
	Testnet        bool
	VaultProgramID string
	VerifierProgramID string
	RetryAttempts  int
	RetryDelay     time.Duration
}

// DefaultConfig returns the documented defaults: up to 3 retries after the
// first attempt, 1000ms fixed delay.
func DefaultConfig() Config {
	return Config{
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}
}

// Client submits verify-and-settle instructions to an on-ledger RPC
// endpoint and reconciles their confirmation status.
type Client struct {
	cfg      Config
	endpoint string
	http     *retryablehttp.Client
}

// New builds a Client. Endpoint selection follows cfg.Testnet: the public
// testnet RPC, or a local validator otherwise.
func New(cfg Config) *Client {
	endpoint := localEndpoint
	if cfg.Testnet {
		endpoint = publicEndpoint
	}

	h := retryablehttp.NewClient()
	h.Logger = nil
	h.RetryMax = cfg.RetryAttempts

	// A constant retry_delay_ms is wanted here rather than the library's
	// default exponential backoff.
	delay := cfg.RetryDelay
	h.Backoff = func(_, _ time.Duration, _ int, _ *http.Response) time.Duration {
		return delay
	}

	return &Client{cfg: cfg, endpoint: endpoint, http: h}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return errors.Wrap(err, "ledgerclient: marshal request")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "ledgerclient: build request")
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "ledgerclient: call %s", method)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "ledgerclient: read response")
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		return errors.Wrap(err, "ledgerclient: decode response")
	}

	if rpcResp.Error != nil {
		return fmt.Errorf("ledgerclient: %s failed: %s", method, rpcResp.Error.Message)
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(rpcResp.Result, out)
}

// Submit encodes and submits a settled batch's instruction. The
// retryablehttp client already applies the configured bounded retry/delay;
// exhaustion surfaces an error without discarding the batch, leaving C6's
// caller free to retain it in Proved for later replay.
func (c *Client) Submit(ctx context.Context, data domain.BatchSettlementData, proofBytes []byte) (string, error) {
	instruction := EncodeInstruction(data, proofBytes)
	encoded := base64.StdEncoding.EncodeToString(instruction)

	var result string
	if err := c.call(ctx, "sendTransaction", []any{encoded, map[string]any{"encoding": "base64"}}, &result); err != nil {
		return "", err
	}

	return result, nil
}

// HealthCheck confirms the configured endpoint answers.
func (c *Client) HealthCheck(ctx context.Context) error {
	var result string
	return c.call(ctx, "getHealth", nil, &result)
}

// Balance queries the lamport balance held at a base58-encoded address.
func (c *Client) Balance(ctx context.Context, address string) (uint64, error) {
	if _, err := base58.Decode(address); err != nil {
		return 0, errors.Wrap(err, "ledgerclient: address is not valid base58")
	}

	var result struct {
		Value uint64 `json:"value"`
	}

	if err := c.call(ctx, "getBalance", []any{address}, &result); err != nil {
		return 0, err
	}

	return result.Value, nil
}

// transactionStatus mirrors the subset of getSignatureStatuses this client
// cares about.
type transactionStatus struct {
	ConfirmationStatus string `json:"confirmationStatus"`
	Err                any    `json:"err"`
}

func (c *Client) signatureStatus(ctx context.Context, transactionID string) (*transactionStatus, error) {
	var result struct {
		Value []*transactionStatus `json:"value"`
	}

	if err := c.call(ctx, "getSignatureStatuses", []any{[]string{transactionID}}, &result); err != nil {
		return nil, err
	}

	if len(result.Value) == 0 {
		return nil, nil
	}

	return result.Value[0], nil
}

// IsConfirmed reports whether transactionID has reached "confirmed" or
// "finalized" status with no error.
func (c *Client) IsConfirmed(ctx context.Context, transactionID string) (bool, error) {
	status, err := c.signatureStatus(ctx, transactionID)
	if err != nil {
		return false, err
	}

	if status == nil || status.Err != nil {
		return false, nil
	}

	return status.ConfirmationStatus == "confirmed" || status.ConfirmationStatus == "finalized", nil
}

// Reconcile sweeps every persisted batch carrying a transaction id and
// compares its local status against the ledger's view.
func (c *Client) Reconcile(ctx context.Context, batches []domain.SettlementBatch) domain.ReconciliationReport {
	report := domain.ReconciliationReport{
		Discrepancies: make([]domain.ReconciliationEntry, 0),
	}

	for _, b := range batches {
		if b.TransactionID == "" {
			continue
		}

		report.Checked++

		confirmed, err := c.IsConfirmed(ctx, b.TransactionID)
		entry := domain.ReconciliationEntry{
			BatchID:       b.BatchID,
			TransactionID: b.TransactionID,
			LocalStatus:   b.Status,
			Confirmed:     confirmed,
		}

		switch {
		case err != nil:
			entry.Discrepancy = "lookup_failed: " + err.Error()
			report.Pending++
		case confirmed && b.Status != domain.BatchConfirmed:
			entry.Discrepancy = "confirmed on ledger but not locally"
			report.Confirmed++
		case !confirmed && b.Status == domain.BatchConfirmed:
			entry.Discrepancy = "confirmed locally but not on ledger"
			report.Pending++
		case confirmed:
			report.Confirmed++
		default:
			report.Pending++
		}

		if entry.Discrepancy != "" {
			report.Discrepancies = append(report.Discrepancies, entry)
		}
	}

	return report
}
