// Package gateway is the Razorpay-shaped payment collaborator: order
// creation, payment lookup, and callback signature verification. The
// checkout itself runs client-side; the server only ever sees the order
// handle and the signed callback.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/eventify/booking/internal/domain"
	"github.com/eventify/booking/internal/observability"
)

type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
	logger    observability.Logger
}

func NewClient(baseURL, keyID, keySecret string, timeout time.Duration, logger observability.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		http:      &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrder registers an intent to charge exactly amount minor units.
// No server-side state is committed; a timed-out call is safe to retry.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency string) (domain.OrderHandle, error) {
	start := time.Now()
	defer func() {
		observability.GatewayRequestDuration.WithLabelValues("create_order").Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(orderRequest{Amount: amount, Currency: currency})
	if err != nil {
		return domain.OrderHandle{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return domain.OrderHandle{}, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithField("op", "create_order").Error("gateway call failed", err)
		return domain.OrderHandle{}, errors.Mark(err, domain.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.OrderHandle{}, errors.Mark(
			fmt.Errorf("gateway order create: status %d", resp.StatusCode),
			domain.ErrGatewayUnavailable,
		)
	}

	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.OrderHandle{}, errors.Mark(err, domain.ErrGatewayUnavailable)
	}

	return domain.OrderHandle{
		GatewayOrderID: out.ID,
		Amount:         out.Amount,
		Currency:       out.Currency,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

type paymentResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	OrderID  string `json:"order_id"`
	Status   string `json:"status"`
}

// PaymentAmount fetches the gateway-authorized amount for a payment id.
func (c *Client) PaymentAmount(ctx context.Context, paymentID string) (int64, error) {
	start := time.Now()
	defer func() {
		observability.GatewayRequestDuration.WithLabelValues("fetch_payment").Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/"+paymentID, nil)
	if err != nil {
		return 0, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithField("op", "fetch_payment").Error("gateway call failed", err)
		return 0, errors.Mark(err, domain.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Mark(
			fmt.Errorf("gateway payment fetch: status %d", resp.StatusCode),
			domain.ErrGatewayUnavailable,
		)
	}

	var out paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, errors.Mark(err, domain.ErrGatewayUnavailable)
	}
	return out.Amount, nil
}

// VerifySignature recomputes the callback signature over
// orderID + "|" + paymentID and compares in constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(c.keySecret, orderID, paymentID, signature)
}

// Sign produces the hex HMAC-SHA256 the gateway attaches to a successful
// checkout. Exposed for tests and for stub gateways.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret, orderID, paymentID, signature string) bool {
	expected, err := hex.DecodeString(Sign(secret, orderID, paymentID))
	if err != nil {
		return false
	}
	supplied, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, supplied)
}
