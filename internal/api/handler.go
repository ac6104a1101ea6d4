package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/punchamoorthee/txledger/internal/domain"
	"github.com/punchamoorthee/txledger/internal/service"
)

// Metrics
var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "endpoint"})
)

// AccountView is the JSON shape of an account's balances.
type AccountView struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

// EntryView is one logged transaction.
type EntryView struct {
	Type   string `json:"type"`
	Amount string `json:"amount,omitempty"`
}

// HistoryView groups the entries logged under one transaction id.
type HistoryView struct {
	TX      uint32      `json:"tx"`
	State   string      `json:"state"`
	Entries []EntryView `json:"entries"`
}

type Handler struct {
	ledger *service.Ledger
}

func NewHandler(l *service.Ledger) *Handler {
	return &Handler{ledger: l}
}

// NewRouter wires the read-only ledger endpoints.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/accounts", h.ListAccounts).Methods("GET")
	apiV1.HandleFunc("/accounts/{id}", h.GetAccount).Methods("GET")
	apiV1.HandleFunc("/accounts/{id}/transactions", h.GetTransactions).Methods("GET")
	return r
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("GET", "/accounts"))
	defer timer.ObserveDuration()

	snapshot := h.ledger.Snapshot()
	views := make([]AccountView, 0, len(snapshot))
	for _, b := range snapshot {
		views = append(views, toView(b))
	}
	h.respondJSON(w, http.StatusOK, views, "GET", "/accounts")
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("GET", "/accounts/{id}"))
	defer timer.ObserveDuration()

	account, ok := h.lookup(w, r, "/accounts/{id}")
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, toView(account.Balances()), "GET", "/accounts/{id}")
}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("GET", "/accounts/{id}/transactions"))
	defer timer.ObserveDuration()

	account, ok := h.lookup(w, r, "/accounts/{id}/transactions")
	if !ok {
		return
	}

	ids := account.TransactionIDs()
	history := make([]HistoryView, 0, len(ids))
	for _, id := range ids {
		entries := account.Entries(id)
		view := HistoryView{TX: id, State: account.DisputeState(id).String(), Entries: make([]EntryView, 0, len(entries))}
		for _, e := range entries {
			entry := EntryView{Type: e.Kind.String()}
			if e.Amount.Valid {
				entry.Amount = domain.FormatAmount(e.Amount.Decimal)
			}
			view.Entries = append(view.Entries, entry)
		}
		history = append(history, view)
	}
	h.respondJSON(w, http.StatusOK, history, "GET", "/accounts/{id}/transactions")
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, endpoint string) (*domain.Account, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 16)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid client id", "GET", endpoint)
		return nil, false
	}

	account, ok := h.ledger.Account(uint16(id))
	if !ok {
		h.respondError(w, http.StatusNotFound, "Account not found", "GET", endpoint)
		return nil, false
	}
	return account, true
}

func toView(b domain.Balances) AccountView {
	return AccountView{
		Client:    b.ClientID,
		Available: domain.FormatAmount(b.Available),
		Held:      domain.FormatAmount(b.Held),
		Total:     domain.FormatAmount(b.Total),
		Locked:    b.Locked,
	}
}

// Helpers
func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload interface{}, method, endpoint string) {
	httpReqTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) respondError(w http.ResponseWriter, code int, msg, method, endpoint string) {
	h.respondJSON(w, code, map[string]string{"error": msg}, method, endpoint)
}
