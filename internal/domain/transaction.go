package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the type of a ledger event.
type Kind uint8

const (
	Deposit Kind = iota + 1
	Withdrawal
	Dispute
	Resolve
	Chargeback
)

var kindNames = map[Kind]string{
	Deposit:    "deposit",
	Withdrawal: "withdrawal",
	Dispute:    "dispute",
	Resolve:    "resolve",
	Chargeback: "chargeback",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps the wire name of a transaction type to its Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown transaction type %q", s)
}

// MovesFunds reports whether transactions of this kind carry their own amount.
func (k Kind) MovesFunds() bool {
	return k == Deposit || k == Withdrawal
}

// Transaction is an immutable ledger event.
// For Dispute, Resolve and Chargeback the ID references an earlier
// Deposit or Withdrawal instead of introducing a new one.
type Transaction struct {
	ID       uint32
	Kind     Kind
	ClientID uint16
	Amount   decimal.NullDecimal
}

// NewDeposit builds a deposit of amount.
func NewDeposit(client uint16, id uint32, amount decimal.Decimal) Transaction {
	return Transaction{ID: id, Kind: Deposit, ClientID: client, Amount: decimal.NewNullDecimal(amount)}
}

// NewWithdrawal builds a withdrawal of amount.
func NewWithdrawal(client uint16, id uint32, amount decimal.Decimal) Transaction {
	return Transaction{ID: id, Kind: Withdrawal, ClientID: client, Amount: decimal.NewNullDecimal(amount)}
}

// NewReference builds a Dispute, Resolve or Chargeback pointing at tx id.
func NewReference(kind Kind, client uint16, id uint32) Transaction {
	return Transaction{ID: id, Kind: kind, ClientID: client}
}

func (t Transaction) String() string {
	if t.Amount.Valid {
		return fmt.Sprintf("%s client=%d tx=%d amount=%s", t.Kind, t.ClientID, t.ID, t.Amount.Decimal)
	}
	return fmt.Sprintf("%s client=%d tx=%d", t.Kind, t.ClientID, t.ID)
}
