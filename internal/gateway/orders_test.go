package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dinithim/storefront-checkout/internal/auth"
	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/dinithim/storefront-checkout/internal/gateway"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func draft() entities.OrderDraft {
	return entities.OrderDraft{
		Lines: []entities.SnapshotLine{
			{
				Product: entities.Product{
					ID:    "p1",
					Name:  "product p1",
					Price: decimal.RequireFromString("25.00"),
				},
				Variant:  entities.Variant{Name: "default", Stock: 5},
				Quantity: 2,
			},
		},
		ShippingAddress: entities.Address{
			Line1:      "16/1",
			City:       "Kadawatha",
			State:      "Western",
			PostalCode: "11850",
			Phone:      "+94702700100",
		},
	}
}

func TestOrders_CreateOrder_Payload(t *testing.T) {
	var captured map[string]any
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{"id": "o1", "paymentStatus": "PENDING"})
	}))
	defer srv.Close()

	client := gateway.NewClient(testLogger(), srv.URL, time.Second)
	orders := gateway.NewOrders(testLogger(), client)

	ctx := auth.WithToken(context.Background(), "tok-123")
	order, err := orders.CreateOrder(ctx, draft())
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, entities.PaymentPending, order.PaymentStatus)
	assert.Equal(t, "Bearer tok-123", gotAuth)

	// authoritative contract: price as decimal string, explicit variant
	items := captured["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	product := item["product"].(map[string]any)
	assert.Equal(t, "25", product["price"])
	assert.IsType(t, "", product["price"])
	variant := product["variant"].(map[string]any)
	assert.Equal(t, "default", variant["name"])
	assert.Equal(t, float64(2), item["quantity"])

	addr := captured["shippingAddress"].(map[string]any)
	assert.Equal(t, "16/1", addr["line_1"])
	assert.Equal(t, "11850", addr["zip_code"])
	assert.Equal(t, "+94702700100", addr["phone"])
}

func TestOrders_CreateOrder_NoToken(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := gateway.NewClient(testLogger(), srv.URL, time.Second)
	orders := gateway.NewOrders(testLogger(), client)

	_, err := orders.CreateOrder(context.Background(), draft())
	assert.ErrorIs(t, err, entities.ErrAuthRequired)
	assert.False(t, called, "request must not leave the process without a credential")
}

func TestOrders_ErrorClassification(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		check   func(t *testing.T, err error)
	}{
		{
			name:   "401 is an authentication error",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, entities.ErrAuthRequired)
			},
		},
		{
			name:   "400 with field detail is a validation error",
			status: http.StatusBadRequest,
			body:   `{"message":"invalid request","fields":{"phone":"invalid"}}`,
			check: func(t *testing.T, err error) {
				var ve *entities.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "invalid", ve.Fields["phone"])
			},
		},
		{
			name:   "404 is not found",
			status: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, entities.ErrOrderNotFound)
			},
		},
		{
			name:   "500 is transient",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, entities.ErrTransientService)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				if tc.body != "" {
					io.WriteString(w, tc.body)
				}
			}))
			defer srv.Close()

			client := gateway.NewClient(testLogger(), srv.URL, time.Second)
			orders := gateway.NewOrders(testLogger(), client)

			ctx := auth.WithToken(context.Background(), "tok")
			_, err := orders.CreateOrder(ctx, draft())
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestOrders_NetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := gateway.NewClient(testLogger(), srv.URL, time.Second)
	orders := gateway.NewOrders(testLogger(), client)

	ctx := auth.WithToken(context.Background(), "tok")
	_, err := orders.CreateOrder(ctx, draft())
	assert.ErrorIs(t, err, entities.ErrTransientService)
}

func TestOrders_ConfirmPayment(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/confirm", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{"id": "o1", "paymentStatus": "PAID"})
	}))
	defer srv.Close()

	client := gateway.NewClient(testLogger(), srv.URL, time.Second)
	orders := gateway.NewOrders(testLogger(), client)

	ctx := auth.WithToken(context.Background(), "tok")
	order, err := orders.ConfirmPayment(ctx, "o1", entities.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, "o1", captured["orderId"])
	assert.Equal(t, "PAID", captured["outcome"])
}
