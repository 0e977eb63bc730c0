package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/rand"

	"apnastay/pkg/client"
	"apnastay/pkg/errors"
)

// Client creates payment orders and verifies capture signatures against a
// Razorpay-compatible gateway. Amounts cross the wire in paise.
type Client struct {
	http      *client.HttpClient
	keyID     string
	keySecret string
}

func New(baseURL, keyID, keySecret string) *Client {
	return &Client{
		http:      client.NewHttpClient(baseURL),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder registers an order for the given price in whole currency
// units. The gateway wants the smallest unit, so the amount is price x 100.
func (c *Client) CreateOrder(ctx context.Context, price int64) (*Order, error) {
	req := createOrderRequest{
		Amount:   price * 100,
		Currency: "INR",
		Receipt:  fmt.Sprintf("order_rcptid_%d", rand.Intn(10000000)),
	}

	resp, err := c.http.POST(ctx, "/v1/orders", req, c.authHeaders())
	if err != nil {
		return nil, errors.Unavailable("payment gateway", err)
	}

	if resp.StatusCode >= 400 {
		return nil, errors.Internal(
			fmt.Sprintf("payment gateway rejected order creation (status %d)", resp.StatusCode), nil)
	}

	var order Order
	if err := resp.DecodeJSON(&order); err != nil {
		return nil, errors.Internal("decoding payment order response", err)
	}

	if order.ID == "" {
		return nil, errors.Internal("payment gateway returned an order without an id", nil)
	}

	return &order, nil
}

// VerifySignature checks the capture signature the gateway computes over
// "orderID|paymentID" with the key secret. Comparison is constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) authHeaders() map[string]string {
	credentials := base64.StdEncoding.EncodeToString([]byte(c.keyID + ":" + c.keySecret))
	return map[string]string{
		"Authorization": "Basic " + credentials,
	}
}
