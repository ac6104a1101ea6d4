package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/punchamoorthee/txledger/internal/domain"
)

var accountHeader = []string{"client", "available", "held", "total", "locked"}

// WriteAccounts writes one row per account, in the order given.
func WriteAccounts(w io.Writer, accounts []domain.Balances) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(accountHeader); err != nil {
		return err
	}

	for _, b := range accounts {
		err := cw.Write([]string{
			strconv.FormatUint(uint64(b.ClientID), 10),
			domain.FormatAmount(domain.Round4(b.Available)),
			domain.FormatAmount(domain.Round4(b.Held)),
			domain.FormatAmount(domain.Round4(b.Total)),
			strconv.FormatBool(b.Locked),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
