package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/punchamoorthee/txledger/internal/domain"
	"go.uber.org/zap"
)

var (
	transactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transactions_total",
		Help: "Transactions routed to accounts, labeled by type and outcome",
	}, []string{"type", "outcome"})

	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transaction_rejections_total",
		Help: "Rejected transactions, labeled by reason",
	}, []string{"reason"})

	accountsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_accounts_opened_total",
		Help: "Accounts created by a client's first accepted transaction",
	})

	applyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_transaction_apply_duration_seconds",
		Help:    "Time spent routing a single transaction",
		Buckets: prometheus.ExponentialBuckets(0.000001, 4, 8),
	})
)

// Source yields transactions in ledger order. Next returns io.EOF once the
// stream is exhausted.
type Source interface {
	Next() (domain.Transaction, error)
}

// Options configures a Ledger. The zero value uses strict rules, continues
// past rejected transactions and does not log.
type Options struct {
	Rules       domain.Rules
	ErrorPolicy domain.ErrorPolicy
	Logger      *zap.Logger
}

// Summary counts what Process did.
type Summary struct {
	Applied  int
	Rejected int
	Accounts int
}

// Ledger owns every client account and routes transactions to them one at a
// time.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[uint16]*domain.Account
	rules    domain.Rules
	policy   domain.ErrorPolicy
	log      *zap.Logger
}

func NewLedger(opts Options) *Ledger {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		accounts: make(map[uint16]*domain.Account),
		rules:    opts.Rules,
		policy:   opts.ErrorPolicy,
		log:      logger,
	}
}

// Route applies tx to its client's account, opening the account if this is
// the client's first transaction. A rejected transaction leaves the ledger as
// it was and is returned as a *domain.TransactionError.
func (l *Ledger) Route(tx domain.Transaction) error {
	timer := prometheus.NewTimer(applyDuration)
	defer timer.ObserveDuration()

	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	if account, ok := l.accounts[tx.ClientID]; ok {
		err = l.rules.Apply(account, tx)
	} else {
		account, err = l.rules.Open(tx)
		if err == nil {
			l.accounts[tx.ClientID] = account
			accountsOpened.Inc()
		}
	}

	if err != nil {
		transactionsTotal.WithLabelValues(tx.Kind.String(), "rejected").Inc()
		var txErr *domain.TransactionError
		if errors.As(err, &txErr) {
			rejectionsTotal.WithLabelValues(txErr.Kind.String()).Inc()
		}
		return err
	}

	transactionsTotal.WithLabelValues(tx.Kind.String(), "applied").Inc()
	return nil
}

// Process drains src into the ledger. Read failures are always fatal;
// rejected transactions are handled according to the ErrorPolicy.
func (l *Ledger) Process(ctx context.Context, src Source) (Summary, error) {
	var sum Summary

	for {
		if err := ctx.Err(); err != nil {
			return l.summarize(sum), err
		}

		tx, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return l.summarize(sum), fmt.Errorf("read transaction: %w", err)
		}

		err = l.Route(tx)
		if err == nil {
			sum.Applied++
			continue
		}

		var txErr *domain.TransactionError
		if !errors.As(err, &txErr) {
			return l.summarize(sum), err
		}

		sum.Rejected++
		l.log.Warn("transaction rejected",
			zap.Uint16("client", tx.ClientID),
			zap.Uint32("tx", tx.ID),
			zap.String("type", tx.Kind.String()),
			zap.String("reason", txErr.Kind.String()),
			zap.String("available", domain.FormatAmount(txErr.Balances.Available)),
			zap.Bool("locked", txErr.Balances.Locked),
		)

		if l.policy == domain.AbortOnError {
			return l.summarize(sum), err
		}
	}

	sum = l.summarize(sum)
	l.log.Info("transactions processed",
		zap.Int("applied", sum.Applied),
		zap.Int("rejected", sum.Rejected),
		zap.Int("accounts", sum.Accounts),
	)
	return sum, nil
}

func (l *Ledger) summarize(sum Summary) Summary {
	sum.Accounts = l.Len()
	return sum
}

// Len returns the number of accounts.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.accounts)
}

// Snapshot returns the balances of every account, sorted by client id.
func (l *Ledger) Snapshot() []domain.Balances {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Balances, 0, len(l.accounts))
	for _, account := range l.accounts {
		out = append(out, account.Balances())
	}
	slices.SortFunc(out, func(a, b domain.Balances) int {
		return int(a.ClientID) - int(b.ClientID)
	})
	return out
}

// Account returns a copy of the client's account.
func (l *Ledger) Account(client uint16) (*domain.Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	account, ok := l.accounts[client]
	if !ok {
		return nil, false
	}
	return account.Clone(), true
}
