package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/punchamoorthee/txledger/internal/domain"
	"github.com/punchamoorthee/txledger/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	l := service.NewLedger(service.Options{})
	for _, tx := range []domain.Transaction{
		domain.NewDeposit(2, 2, decimal.RequireFromString("2.0")),
		domain.NewDeposit(2, 3, decimal.RequireFromString("1.3")),
		domain.NewReference(domain.Dispute, 2, 2),
		domain.NewDeposit(1, 1, decimal.RequireFromString("1.0")),
	} {
		require.NoError(t, l.Route(tx))
	}
	return NewRouter(NewHandler(l))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestListAccounts(t *testing.T) {
	rec := get(t, newTestRouter(t), "/api/v1/accounts")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var views []AccountView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&views))
	assert.Equal(t, []AccountView{
		{Client: 1, Available: "1.0000", Held: "0.0000", Total: "1.0000"},
		{Client: 2, Available: "1.3000", Held: "2.0000", Total: "3.3000"},
	}, views)
}

func TestGetAccount(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		path string
		code int
		body string
	}{
		{path: "/api/v1/accounts/2", code: http.StatusOK, body: `"available":"1.3000"`},
		{path: "/api/v1/accounts/3", code: http.StatusNotFound, body: "Account not found"},
		{path: "/api/v1/accounts/abc", code: http.StatusBadRequest, body: "Invalid client id"},
		{path: "/api/v1/accounts/70000", code: http.StatusBadRequest, body: "Invalid client id"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, router, tt.path)

			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestGetTransactions(t *testing.T) {
	rec := get(t, newTestRouter(t), "/api/v1/accounts/2/transactions")

	require.Equal(t, http.StatusOK, rec.Code)
	var history []HistoryView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&history))

	assert.Equal(t, []HistoryView{
		{TX: 2, State: "disputed", Entries: []EntryView{{Type: "deposit", Amount: "2.0000"}, {Type: "dispute"}}},
		{TX: 3, State: "not_disputed", Entries: []EntryView{{Type: "deposit", Amount: "1.3000"}}},
	}, history)
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	rec := get(t, router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	get(t, router, "/api/v1/accounts/1")
	rec = get(t, router, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ledger_http_requests_total"))
	assert.True(t, strings.Contains(rec.Body.String(), "ledger_transactions_total"))
}

func TestRequestCounter(t *testing.T) {
	counter := httpReqTotal.WithLabelValues("GET", "/accounts/{id}", "404")
	before := testutil.ToFloat64(counter)

	get(t, newTestRouter(t), "/api/v1/accounts/404")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
