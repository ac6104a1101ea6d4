package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Balances is the externally visible state of an account.
type Balances struct {
	ClientID  uint16          `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}

var tolerance = decimal.New(1, -Precision)

// Consistent reports whether Total equals Available+Held within one unit of
// the last decimal place.
func (b Balances) Consistent() bool {
	return b.Total.Sub(b.Available.Add(b.Held)).Abs().LessThanOrEqual(tolerance)
}

// Account holds a client's balances and the transactions applied to it,
// grouped by the id they open or reference.
type Account struct {
	ID        uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
	History   map[uint32][]Transaction
}

// NewAccount returns an empty, unlocked account.
func NewAccount(id uint16) *Account {
	return &Account{ID: id, History: make(map[uint32][]Transaction)}
}

// Balances returns a copy of the account's balances.
func (a *Account) Balances() Balances {
	return Balances{
		ClientID:  a.ID,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total,
		Locked:    a.Locked,
	}
}

// Clone returns a deep copy of the account, history included.
func (a *Account) Clone() *Account {
	c := *a
	c.History = make(map[uint32][]Transaction, len(a.History))
	for id, entries := range a.History {
		c.History[id] = slices.Clone(entries)
	}
	return &c
}

// TransactionIDs returns the ids present in the history, ascending.
func (a *Account) TransactionIDs() []uint32 {
	ids := make([]uint32, 0, len(a.History))
	for id := range a.History {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Entries returns a copy of the transactions logged under id.
func (a *Account) Entries(id uint32) []Transaction {
	return slices.Clone(a.History[id])
}

// DisputeState returns the dispute state of the transaction logged under id.
func (a *Account) DisputeState(id uint32) DisputeState {
	return disputeStateOf(a.History[id])
}

// Apply applies tx with the default strict rules.
func (a *Account) Apply(tx Transaction) error {
	return Rules{}.Apply(a, tx)
}

// Apply validates tx against a and, if it is accepted, mutates a.
// A rejected transaction returns a *TransactionError and leaves a untouched.
func (r Rules) Apply(a *Account, tx Transaction) error {
	if a.Locked {
		return reject(AccountLocked, tx, a)
	}

	switch tx.Kind {
	case Deposit:
		amount, err := a.requireAmount(tx)
		if err != nil {
			return err
		}
		a.Available = Round4(a.Available.Add(amount))
		a.Total = Round4(a.Total.Add(amount))
		tx.Amount = decimal.NewNullDecimal(amount)
	case Withdrawal:
		amount, err := a.requireAmount(tx)
		if err != nil {
			return err
		}
		if amount.GreaterThan(a.Available) {
			return reject(InsufficientFunds, tx, a)
		}
		a.Available = Round4(a.Available.Sub(amount))
		a.Total = Round4(a.Total.Sub(amount))
		tx.Amount = decimal.NewNullDecimal(amount)
	case Dispute, Resolve, Chargeback:
		if tx.Amount.Valid {
			return reject(HasMeaninglessAmount, tx, a)
		}
		ref, ok := referenceOf(a.History[tx.ID])
		if !ok {
			if r.UnknownReference == IgnoreUnknownReference {
				break
			}
			return reject(InvalidIDReferenced, tx, a)
		}
		a.settle(tx, ref.Amount.Decimal)
	default:
		return reject(Unspecified, tx, a)
	}

	a.History[tx.ID] = append(a.History[tx.ID], tx)
	return nil
}

// settle moves funds for a dispute, resolve or chargeback whose reference
// transaction carries amount. Disputing a withdrawal moves its amount the
// same way as a deposit.
func (a *Account) settle(tx Transaction, amount decimal.Decimal) {
	disputed := a.DisputeState(tx.ID) == Disputed

	switch tx.Kind {
	case Dispute:
		a.Available = Round4(a.Available.Sub(amount))
		a.Held = Round4(a.Held.Add(amount))
	case Resolve:
		if !disputed {
			return
		}
		a.Held = Round4(a.Held.Sub(amount))
		a.Available = Round4(a.Available.Add(amount))
	case Chargeback:
		if !disputed {
			return
		}
		a.Held = Round4(a.Held.Sub(amount))
		a.Total = Round4(a.Total.Sub(amount))
		a.Locked = true
	}
}

// requireAmount returns the transaction amount rounded to four places. An
// amount that rounds to zero is not positive. The rounded value is what gets
// logged, so later disputes move exactly what was applied.
func (a *Account) requireAmount(tx Transaction) (decimal.Decimal, error) {
	if !tx.Amount.Valid {
		return decimal.Decimal{}, reject(MissingRequiredAmount, tx, a)
	}
	amount := Round4(tx.Amount.Decimal)
	if !amount.IsPositive() {
		return decimal.Decimal{}, reject(NonPositiveAmount, tx, a)
	}
	return amount, nil
}

// referenceOf returns the deposit or withdrawal a sequence of entries refers to.
func referenceOf(entries []Transaction) (Transaction, bool) {
	for _, e := range entries {
		if e.Kind.MovesFunds() && e.Amount.Valid {
			return e, true
		}
	}
	return Transaction{}, false
}
