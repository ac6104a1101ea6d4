package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"deposit":     Deposit,
		"withdrawal":  Withdrawal,
		"dispute":     Dispute,
		"resolve":     Resolve,
		"chargeback":  Chargeback,
		" Deposit ":   Deposit,
		"CHARGEBACK":  Chargeback,
		"\tresolve\t": Resolve,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("transfer")
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "withdrawal", Withdrawal.String())
	assert.Equal(t, "kind(0)", Kind(0).String())
	assert.True(t, Deposit.MovesFunds())
	assert.False(t, Dispute.MovesFunds())
}

func TestErrorPolicyString(t *testing.T) {
	assert.Equal(t, "continue", ContinueOnError.String())
	assert.Equal(t, "abort", AbortOnError.String())
}

func TestTransactionErrorMessage(t *testing.T) {
	a := NewAccount(7)
	err := a.Apply(NewWithdrawal(7, 3, d("2")))

	require.Error(t, err)
	assert.Equal(t,
		"insufficient funds: withdrawal client=7 tx=3 amount=2 (available=0.0000 held=0.0000 total=0.0000 locked=false)",
		err.Error())
	assert.False(t, errors.Is(err, ErrAccountLocked))
	assert.Equal(t, "insufficient_funds", InsufficientFunds.String())
}
