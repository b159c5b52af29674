package paystack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/gateway"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/config"
	coremocks "github.com/sodiq-adeyemi/marketpay/mocks/port/core"
)

func relaxedLogger() *coremocks.MockLogger {
	logger := new(coremocks.MockLogger)
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()
	return logger
}

func newTestClient(server *httptest.Server) *Client {
	return NewClient(&config.GatewayConfig{
		BaseURL:   server.URL,
		SecretKey: "sk_test_secret",
		Timeout:   5 * time.Second,
	}, relaxedLogger())
}

func respond(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func TestClient_InitializeCharge(t *testing.T) {
	t.Run("should send the amount in kobo with the bearer key", func(t *testing.T) {
		var captured map[string]any
		var authHeader string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/transaction/initialize", r.URL.Path)
			authHeader = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&captured)
			respond(w, http.StatusOK, `{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/x9y8z7","access_code":"x9y8z7","reference":"TXN_C1"}}`)
		}))
		defer server.Close()
		client := newTestClient(server)

		auth, err := client.InitializeCharge(context.Background(), decimal.NewFromFloat(150.50), "dayo@example.com", "TXN_C1", nil)

		assert.NoError(t, err)
		assert.Equal(t, "Bearer sk_test_secret", authHeader)
		assert.Equal(t, float64(15050), captured["amount"])
		assert.Equal(t, "NGN", captured["currency"])
		assert.Equal(t, "https://checkout.paystack.com/x9y8z7", auth.AuthorizationURL)
		assert.Equal(t, "x9y8z7", auth.AccessCode)
		assert.Equal(t, "TXN_C1", auth.Reference)
	})

	t.Run("should map a validation rejection to ErrValidation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusBadRequest, `{"status":false,"message":"Invalid email address"}`)
		}))
		defer server.Close()
		client := newTestClient(server)

		_, err := client.InitializeCharge(context.Background(), decimal.NewFromInt(100), "bad", "TXN_C2", nil)

		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Contains(t, err.Error(), "Invalid email address")
	})

	t.Run("should map a server error to ErrGatewayUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusInternalServerError, `{"status":false,"message":"Server error"}`)
		}))
		defer server.Close()
		client := newTestClient(server)

		_, err := client.InitializeCharge(context.Background(), decimal.NewFromInt(100), "dayo@example.com", "TXN_C3", nil)

		assert.ErrorIs(t, err, errs.ErrGatewayUnavailable)
	})

	t.Run("should treat an unreachable host as ErrGatewayUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()
		client := newTestClient(server)

		_, err := client.InitializeCharge(context.Background(), decimal.NewFromInt(100), "dayo@example.com", "TXN_C4", nil)

		assert.ErrorIs(t, err, errs.ErrGatewayUnavailable)
	})

	t.Run("should treat an unparseable body as ErrGatewayUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusOK, `<html>gateway timeout</html>`)
		}))
		defer server.Close()
		client := newTestClient(server)

		_, err := client.InitializeCharge(context.Background(), decimal.NewFromInt(100), "dayo@example.com", "TXN_C5", nil)

		assert.ErrorIs(t, err, errs.ErrGatewayUnavailable)
	})
}

func TestClient_VerifyCharge(t *testing.T) {
	t.Run("should extract the status and keep the raw payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transaction/verify/TXN_V1", r.URL.Path)
			respond(w, http.StatusOK, `{"status":true,"message":"Verification successful","data":{"status":"success","amount":50000,"gateway_response":"Successful"}}`)
		}))
		defer server.Close()
		client := newTestClient(server)

		result, err := client.VerifyCharge(context.Background(), "TXN_V1")

		assert.NoError(t, err)
		assert.Equal(t, gateway.StatusSuccess, result.Status)
		assert.Equal(t, "Successful", result.Raw.GetString("gateway_response"))
	})

	t.Run("should reject a payload with no status field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusOK, `{"status":true,"message":"ok","data":{"amount":50000}}`)
		}))
		defer server.Close()
		client := newTestClient(server)

		_, err := client.VerifyCharge(context.Background(), "TXN_V2")

		assert.ErrorIs(t, err, errs.ErrGatewayRejected)
	})

	t.Run("should pass through non-terminal statuses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusOK, `{"status":true,"message":"ok","data":{"status":"abandoned"}}`)
		}))
		defer server.Close()
		client := newTestClient(server)

		result, err := client.VerifyCharge(context.Background(), "TXN_V3")

		assert.NoError(t, err)
		assert.Equal(t, gateway.Status("abandoned"), result.Status)
	})
}

func TestClient_VerifyTransfer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transfer/verify/TXN_T1", r.URL.Path)
		respond(w, http.StatusOK, `{"status":true,"message":"ok","data":{"status":"reversed","transfer_code":"TRF_9"}}`)
	}))
	defer server.Close()
	client := newTestClient(server)

	result, err := client.VerifyTransfer(context.Background(), "TXN_T1")

	assert.NoError(t, err)
	assert.Equal(t, gateway.StatusReversed, result.Status)
}

func TestClient_ResolveBankAccount(t *testing.T) {
	t.Run("should return the registered account name", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/bank/resolve", r.URL.Path)
			assert.Equal(t, "0123456789", r.URL.Query().Get("account_number"))
			assert.Equal(t, "058", r.URL.Query().Get("bank_code"))
			respond(w, http.StatusOK, `{"status":true,"message":"Account resolved","data":{"account_name":"ADEYEMI SODIQ","account_number":"0123456789"}}`)
		}))
		defer server.Close()
		client := newTestClient(server)

		name, err := client.ResolveBankAccount(context.Background(), "0123456789", "058")

		assert.NoError(t, err)
		assert.Equal(t, "ADEYEMI SODIQ", name)
	})

	t.Run("should surface an unresolvable account", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusUnprocessableEntity, `{"status":false,"message":"Could not resolve account name"}`)
		}))
		defer server.Close()
		client := newTestClient(server)

		_, err := client.ResolveBankAccount(context.Background(), "0000000000", "058")

		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestClient_CreateTransferRecipient(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transferrecipient", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&captured)
		respond(w, http.StatusCreated, `{"status":true,"message":"Transfer recipient created","data":{"recipient_code":"RCP_abc"}}`)
	}))
	defer server.Close()
	client := newTestClient(server)

	code, err := client.CreateTransferRecipient(context.Background(), "ADEYEMI SODIQ", "0123456789", "058")

	assert.NoError(t, err)
	assert.Equal(t, "RCP_abc", code)
	assert.Equal(t, "nuban", captured["type"])
	assert.Equal(t, "NGN", captured["currency"])
}

func TestClient_InitiateTransfer(t *testing.T) {
	t.Run("should return the transfer handle", func(t *testing.T) {
		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transfer", r.URL.Path)
			_ = json.NewDecoder(r.Body).Decode(&captured)
			respond(w, http.StatusOK, `{"status":true,"message":"Transfer queued","data":{"transfer_code":"TRF_1","status":"pending"}}`)
		}))
		defer server.Close()
		client := newTestClient(server)

		handle, err := client.InitiateTransfer(context.Background(), decimal.NewFromInt(300), "RCP_abc", "TXN_T2", "wallet withdrawal")

		assert.NoError(t, err)
		assert.Equal(t, "TRF_1", handle.TransferCode)
		assert.Equal(t, gateway.StatusPending, handle.Status)
		assert.Equal(t, "balance", captured["source"])
		assert.Equal(t, float64(30000), captured["amount"])
	})

	t.Run("should map an insufficient gateway balance to ErrGatewayRejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusForbidden, `{"status":false,"message":"Your balance is not enough"}`)
		}))
		defer server.Close()
		client := newTestClient(server)

		_, err := client.InitiateTransfer(context.Background(), decimal.NewFromInt(300), "RCP_abc", "TXN_T3", "wallet withdrawal")

		assert.ErrorIs(t, err, errs.ErrGatewayRejected)
	})
}

func TestToSubunit(t *testing.T) {
	assert.Equal(t, int64(15050), toSubunit(decimal.NewFromFloat(150.50)))
	assert.Equal(t, int64(100), toSubunit(decimal.NewFromInt(1)))
	assert.Equal(t, int64(0), toSubunit(decimal.Zero))
}
