package report

import (
	"bytes"
	"testing"

	"github.com/punchamoorthee/txledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer

	Render(&buf, []domain.Balances{
		{ClientID: 1, Available: decimal.RequireFromString("1"), Total: decimal.RequireFromString("1")},
		{ClientID: 2, Available: decimal.RequireFromString("1.3"), Held: decimal.RequireFromString("2"), Total: decimal.RequireFromString("3.3")},
		{ClientID: 4, Locked: true},
	})

	out := buf.String()
	for _, want := range []string{"client", "available", "held", "total", "locked", "1.3000", "2.0000", "3.3000", "2.3000", "4.3000", "3 accounts", "1 locked", "true"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer

	Render(&buf, nil)

	assert.Contains(t, buf.String(), "0 accounts")
	assert.Contains(t, buf.String(), "0.0000")
}
