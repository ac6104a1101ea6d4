package domain

// CreationPolicy decides what a client's first transaction may be.
type CreationPolicy uint8

const (
	// StrictCreation rejects a first transaction that is not a deposit.
	StrictCreation CreationPolicy = iota
	// LenientCreation lets the first transaction go through the normal
	// validation of Apply.
	LenientCreation
)

// ReferencePolicy decides what happens to a dispute, resolve or chargeback
// referencing a transaction the account has never seen.
type ReferencePolicy uint8

const (
	// RejectUnknownReference fails with InvalidIDReferenced.
	RejectUnknownReference ReferencePolicy = iota
	// IgnoreUnknownReference leaves balances alone but logs the transaction
	// under the referenced id.
	IgnoreUnknownReference
)

// ErrorPolicy decides whether a rejected transaction stops the driver loop.
type ErrorPolicy uint8

const (
	// ContinueOnError logs the rejection and moves on to the next transaction.
	ContinueOnError ErrorPolicy = iota
	// AbortOnError stops at the first rejection and returns it.
	AbortOnError
)

func (p ErrorPolicy) String() string {
	if p == AbortOnError {
		return "abort"
	}
	return "continue"
}

// Rules configures the state machine. The zero value is strict.
type Rules struct {
	Creation         CreationPolicy
	UnknownReference ReferencePolicy
}

// Open creates the account for tx.ClientID and applies tx as its first
// transaction. On error no account is returned.
func (r Rules) Open(tx Transaction) (*Account, error) {
	a := NewAccount(tx.ClientID)
	if r.Creation == StrictCreation && tx.Kind != Deposit {
		return nil, reject(FirstTransactionNotDeposit, tx, a)
	}
	if err := r.Apply(a, tx); err != nil {
		return nil, err
	}
	return a, nil
}

// DisputeState is the lifecycle of a deposit or withdrawal, derived from the
// last entry logged under its id.
type DisputeState uint8

const (
	NotDisputed DisputeState = iota
	Disputed
	Resolved
	ChargedBack
)

func (s DisputeState) String() string {
	switch s {
	case Disputed:
		return "disputed"
	case Resolved:
		return "resolved"
	case ChargedBack:
		return "charged_back"
	default:
		return "not_disputed"
	}
}

func disputeStateOf(entries []Transaction) DisputeState {
	if len(entries) == 0 {
		return NotDisputed
	}
	switch entries[len(entries)-1].Kind {
	case Dispute:
		return Disputed
	case Resolve:
		return Resolved
	case Chargeback:
		return ChargedBack
	default:
		return NotDisputed
	}
}
