package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.paystack.co"

// Transaction status values reported by the gateway.
const (
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// ErrTransactionNotFound means the gateway has no record of the reference.
// Callers must treat this as ambiguous and leave the ledger untouched.
var ErrTransactionNotFound = errors.New("paystack: transaction reference not found")

// Transaction is the authoritative gateway view of one charge.
type Transaction struct {
	Reference       string
	Status          string
	Amount          int64 // minor units (kobo)
	Currency        string
	GatewayResponse string
	Channel         string
	PaidAt          string
}

func (t *Transaction) Succeeded() bool {
	return t.Status == StatusSuccess
}

// Verifier is the server-side verify-by-reference contract. The live
// implementation is Client; tests substitute their own.
type Verifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*Transaction, error)
}

// Client talks to the Paystack REST API with the secret key. The secret key
// must never reach a browser; only CheckoutParams output is client-safe.
type Client struct {
	BaseURL   string
	SecretKey string
	PublicKey string
	client    *http.Client
}

func NewClient(baseURL, secretKey, publicKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		PublicKey: publicKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type verifyEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference       string `json:"reference"`
		Status          string `json:"status"`
		Amount          int64  `json:"amount"`
		Currency        string `json:"currency"`
		GatewayResponse string `json:"gateway_response"`
		Channel         string `json:"channel"`
		PaidAt          string `json:"paid_at"`
	} `json:"data"`
}

// VerifyTransaction calls GET /transaction/verify/:reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	endpoint := c.BaseURL + "/transaction/verify/" + url.PathEscape(reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrTransactionNotFound
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[paystack] verify %s: status=%d body=%s", reference, resp.StatusCode, string(body))
		return nil, fmt.Errorf("paystack verify: unexpected status %d", resp.StatusCode)
	}
	var env verifyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	if !env.Status {
		// API-level false with a 200 still means the lookup itself failed.
		return nil, fmt.Errorf("paystack verify: %s", env.Message)
	}
	return &Transaction{
		Reference:       env.Data.Reference,
		Status:          env.Data.Status,
		Amount:          env.Data.Amount,
		Currency:        env.Data.Currency,
		GatewayResponse: env.Data.GatewayResponse,
		Channel:         env.Data.Channel,
		PaidAt:          env.Data.PaidAt,
	}, nil
}
