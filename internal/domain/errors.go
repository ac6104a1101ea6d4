package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a transaction was rejected.
type ErrorKind uint8

const (
	NonPositiveAmount ErrorKind = iota + 1
	MissingRequiredAmount
	HasMeaninglessAmount
	InsufficientFunds
	InvalidIDReferenced
	FirstTransactionNotDeposit
	AccountLocked
	Unspecified
)

// Sentinels matched by errors.Is against a *TransactionError.
var (
	ErrNonPositiveAmount          = errors.New("amount must be greater than zero")
	ErrMissingRequiredAmount      = errors.New("deposit or withdrawal without amount")
	ErrHasMeaninglessAmount       = errors.New("dispute, resolve or chargeback with amount")
	ErrInsufficientFunds          = errors.New("insufficient funds")
	ErrInvalidIDReferenced        = errors.New("referenced transaction not found")
	ErrFirstTransactionNotDeposit = errors.New("first transaction is not a deposit")
	ErrAccountLocked              = errors.New("account is locked")
	ErrUnspecified                = errors.New("unsupported transaction")
)

var errorKinds = map[ErrorKind]struct {
	name     string
	sentinel error
}{
	NonPositiveAmount:          {"non_positive_amount", ErrNonPositiveAmount},
	MissingRequiredAmount:      {"missing_required_amount", ErrMissingRequiredAmount},
	HasMeaninglessAmount:       {"has_meaningless_amount", ErrHasMeaninglessAmount},
	InsufficientFunds:          {"insufficient_funds", ErrInsufficientFunds},
	InvalidIDReferenced:        {"invalid_id_referenced", ErrInvalidIDReferenced},
	FirstTransactionNotDeposit: {"first_transaction_not_deposit", ErrFirstTransactionNotDeposit},
	AccountLocked:              {"account_locked", ErrAccountLocked},
	Unspecified:                {"unspecified", ErrUnspecified},
}

// String returns a snake_case name suitable for log fields and metric labels.
func (k ErrorKind) String() string {
	if e, ok := errorKinds[k]; ok {
		return e.name
	}
	return fmt.Sprintf("error_kind(%d)", uint8(k))
}

// TransactionError reports a rejected transaction. Balances is the state of
// the account when the transaction was rejected; the account itself is left
// untouched.
type TransactionError struct {
	Kind        ErrorKind
	Transaction Transaction
	Balances    Balances
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: %s (available=%s held=%s total=%s locked=%t)",
		e.Unwrap(), e.Transaction,
		FormatAmount(e.Balances.Available), FormatAmount(e.Balances.Held), FormatAmount(e.Balances.Total),
		e.Balances.Locked)
}

// Unwrap returns the sentinel for the error kind.
func (e *TransactionError) Unwrap() error {
	if k, ok := errorKinds[e.Kind]; ok {
		return k.sentinel
	}
	return errors.New(e.Kind.String())
}

func reject(kind ErrorKind, tx Transaction, a *Account) *TransactionError {
	return &TransactionError{Kind: kind, Transaction: tx, Balances: a.Balances()}
}
