// Package report renders account snapshots for people rather than machines.
package report

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/punchamoorthee/txledger/internal/domain"
	"github.com/shopspring/decimal"
)

// Render writes accounts as an ASCII table with a totals footer.
func Render(w io.Writer, accounts []domain.Balances) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"client", "available", "held", "total", "locked"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	var available, held, total decimal.Decimal
	locked := 0
	for _, b := range accounts {
		table.Append([]string{
			strconv.FormatUint(uint64(b.ClientID), 10),
			domain.FormatAmount(b.Available),
			domain.FormatAmount(b.Held),
			domain.FormatAmount(b.Total),
			strconv.FormatBool(b.Locked),
		})
		available = available.Add(b.Available)
		held = held.Add(b.Held)
		total = total.Add(b.Total)
		if b.Locked {
			locked++
		}
	}

	table.SetFooter([]string{
		strconv.Itoa(len(accounts)) + " accounts",
		domain.FormatAmount(available),
		domain.FormatAmount(held),
		domain.FormatAmount(total),
		strconv.Itoa(locked) + " locked",
	})
	table.Render()
}
