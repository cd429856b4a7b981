package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_InitializeTransaction(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		require.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]string{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         "ref-1",
			},
		})
	}))
	defer srv.Close()

	c := NewClient("sk_test_secret", WithBaseURL(srv.URL))
	auth, err := c.InitializeTransaction(context.Background(), "jo@example.com", 90000, Metadata{
		WalletID:    "w-1",
		FinalAmount: 900,
		Type:        ChargeTypeOneTime,
	})
	require.NoError(t, err)

	assert.Equal(t, "ref-1", auth.Reference)
	assert.Equal(t, "https://checkout.paystack.com/abc123", auth.AuthorizationURL)
	assert.Equal(t, "jo@example.com", gotBody["email"])
	assert.Equal(t, float64(90000), gotBody["amount"])

	meta := gotBody["metadata"].(map[string]interface{})
	assert.Equal(t, "w-1", meta["walletId"])
	assert.Equal(t, "ONE_TIME", meta["type"])
}

func TestClient_InitializeTransaction_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]interface{}{"status": false, "message": "boom"})
	}))
	defer srv.Close()

	c := NewClient("sk", WithBaseURL(srv.URL))
	_, err := c.InitializeTransaction(context.Background(), "jo@example.com", 100, Metadata{Type: ChargeTypeFund})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_VerifySignature(t *testing.T) {
	c := NewClient("whsec")
	payload := []byte(`{"event":"charge.success"}`)

	mac := hmac.New(sha512.New, []byte("whsec"))
	mac.Write(payload)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, c.VerifySignature(payload, valid))
	assert.False(t, c.VerifySignature(payload, "deadbeef"))
	assert.False(t, c.VerifySignature(payload, ""))
	assert.False(t, c.VerifySignature([]byte(`tampered`), valid))
}

func TestClient_GetCustomer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/customer/jo@example.com", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data":   map[string]string{"customer_code": "CUS_1"},
		})
	}))
	defer srv.Close()

	c := NewClient("sk", WithBaseURL(srv.URL))
	code, err := c.GetCustomer(context.Background(), "jo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "CUS_1", code)
}

func TestClient_CreatePlanAndSubscription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plan":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": true,
				"data":   map[string]string{"plan_code": "PLN_1"},
			})
		case "/subscription":
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "CUS_1", body["customer"])
			require.Equal(t, "PLN_1", body["plan"])
			require.NotEmpty(t, body["start_date"])
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": true,
				"data":   map[string]string{"subscription_code": "SUB_1", "status": "active"},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient("sk", WithBaseURL(srv.URL), WithTimeout(5*time.Second))

	planCode, err := c.CreatePlan(context.Background(), "Monthly retainer", "monthly", 50000)
	require.NoError(t, err)
	assert.Equal(t, "PLN_1", planCode)

	start := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	sub, err := c.CreateSubscription(context.Background(), "CUS_1", "PLN_1", &start)
	require.NoError(t, err)
	assert.Equal(t, "SUB_1", sub.SubscriptionCode)
}
