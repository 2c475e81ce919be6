package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

// SuiWallet talks JSON-RPC 2.0 to a SUI fullnode for reads and to a signer
// sidecar for transfers. The sidecar holds the operator key; this process
// never sees key material.
//
// Configuration:
//
//	SUI_RPC_URL          fullnode endpoint (default mainnet fullnode)
//	SUI_SIGNER_URL       signer sidecar base URL (required for transfers)
//	SUI_OPERATOR_ADDRESS the paying address
type SuiWallet struct {
	rpcURL    string
	signerURL string
	operator  string
	client    *http.Client
}

func NewSuiWalletFromEnv() *SuiWallet {
	rpcURL := os.Getenv("SUI_RPC_URL")
	if rpcURL == "" {
		rpcURL = "https://fullnode.mainnet.sui.io:443"
	}
	return &SuiWallet{
		rpcURL:    rpcURL,
		signerURL: os.Getenv("SUI_SIGNER_URL"),
		operator:  os.Getenv("SUI_OPERATOR_ADDRESS"),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// OperatorAddress returns the configured paying address.
func (w *SuiWallet) OperatorAddress() string {
	return w.operator
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (w *SuiWallet) rpc(ctx context.Context, method string, params []interface{}, result interface{}) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.rpcURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sui rpc %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("sui rpc %s: invalid response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("sui rpc %s: %s", method, envelope.Error.Message)
	}
	return json.Unmarshal(envelope.Result, result)
}

// Balance queries suix_getBalance for the SUI coin type and converts the
// total from MIST.
func (w *SuiWallet) Balance(ctx context.Context, address string) (float64, error) {
	var result struct {
		TotalBalance string `json:"totalBalance"`
	}
	if err := w.rpc(ctx, "suix_getBalance", []interface{}{address, "0x2::sui::SUI"}, &result); err != nil {
		return 0, err
	}
	mist, err := strconv.ParseUint(result.TotalBalance, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sui balance: bad totalBalance %q: %w", result.TotalBalance, err)
	}
	return float64(mist) / MistPerSui, nil
}

// Transfer asks the signer sidecar to build, sign and broadcast a transfer
// of amountMist to recipient. The sidecar response mirrors the dapp-kit
// shape: {"digest": "..."} on success.
func (w *SuiWallet) Transfer(ctx context.Context, recipient string, amountMist uint64) (string, error) {
	if w.signerURL == "" {
		return "", fmt.Errorf("SUI_SIGNER_URL is not configured")
	}
	payload, err := json.Marshal(map[string]interface{}{
		"sender":      w.operator,
		"recipient":   recipient,
		"amount_mist": amountMist,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.signerURL+"/v1/transfer", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sui transfer: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Digest string `json:"digest"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("sui transfer: invalid response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || result.Error != "" {
		reason := result.Error
		if reason == "" {
			reason = resp.Status
		}
		return "", fmt.Errorf("sui transfer rejected: %s", reason)
	}
	log.Printf("[sui] transfer %d MIST -> %s digest=%s", amountMist, recipient, result.Digest)
	return result.Digest, nil
}

// Connected checks the signer sidecar health endpoint.
func (w *SuiWallet) Connected(ctx context.Context) bool {
	if w.signerURL == "" || w.operator == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.signerURL+"/v1/health", nil)
	if err != nil {
		return false
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
