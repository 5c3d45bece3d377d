package ledger

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc, _, _ := newTestService()
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/orders", h.MountRoutes)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeOrder(t *testing.T, resp *http.Response) Order {
	t.Helper()
	defer resp.Body.Close()
	var o Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&o))
	return o
}

func TestHandlerUpsertAndPayment(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/orders", map[string]any{
		"clientId": "cli-1",
		"items": []map[string]any{
			{"productId": "prod-a", "quantity": 2, "unitPrice": 50},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeOrder(t, resp)
	require.NotEmpty(t, created.ID)
	require.Equal(t, StatusUnpaid, created.Status)

	resp = postJSON(t, srv.URL+"/orders/"+created.ID+"/payments", map[string]any{
		"amount": 60,
		"method": "Espèces",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	paid := decodeOrder(t, resp)
	require.Equal(t, StatusPartiallyPaid, paid.Status)
	require.Len(t, paid.Payments, 1)
}

func TestHandlerPaymentValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/orders", map[string]any{
		"clientId": "cli-1",
		"items": []map[string]any{
			{"productId": "prod-a", "quantity": 1, "unitPrice": 10},
		},
	})
	created := decodeOrder(t, resp)

	// Missing method fails form validation.
	resp = postJSON(t, srv.URL+"/orders/"+created.ID+"/payments", map[string]any{"amount": 5})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Unknown order id.
	resp = postJSON(t, srv.URL+"/orders/missing/payments", map[string]any{
		"amount": 5,
		"method": "Espèces",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestHandlerGetAndList(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/orders", map[string]any{
		"clientId": "cli-1",
		"items": []map[string]any{
			{"productId": "prod-a", "quantity": 1, "unitPrice": 10},
		},
	})
	created := decodeOrder(t, resp)

	getResp, err := http.Get(srv.URL + "/orders/" + created.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	getResp.Body.Close()

	listResp, err := http.Get(srv.URL + "/orders")
	require.NoError(t, err)
	defer listResp.Body.Close()
	var all []Order
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&all))
	require.Len(t, all, 1)

	missing, err := http.Get(srv.URL + "/orders/nope")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, missing.StatusCode)
	missing.Body.Close()
}
