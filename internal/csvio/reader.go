// Package csvio reads transaction files and writes account snapshots as CSV.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/punchamoorthee/txledger/internal/domain"
	"github.com/shopspring/decimal"
)

var transactionHeader = []string{"type", "client", "tx", "amount"}

// ParseError is a malformed record in a transaction file.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reader decodes transactions from a CSV stream with a
// "type,client,tx,amount" header. The amount column may be empty or missing
// for dispute, resolve and chargeback rows.
type Reader struct {
	csv        *csv.Reader
	path       string
	headerSeen bool
}

// NewReader returns a Reader over r. path is only used in error messages.
func NewReader(r io.Reader, path string) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &Reader{csv: cr, path: path}
}

// Next returns the next transaction, or io.EOF at the end of the stream.
func (r *Reader) Next() (domain.Transaction, error) {
	for {
		record, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			if !r.headerSeen {
				return domain.Transaction{}, &ParseError{Path: r.path, Line: 1, Err: errors.New("missing header")}
			}
			return domain.Transaction{}, io.EOF
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return domain.Transaction{}, &ParseError{Path: r.path, Line: csvErr.Line, Err: csvErr.Err}
			}
			return domain.Transaction{}, fmt.Errorf("read %s: %w", r.path, err)
		}

		line, _ := r.csv.FieldPos(0)

		if !r.headerSeen {
			if err := checkHeader(record); err != nil {
				return domain.Transaction{}, &ParseError{Path: r.path, Line: line, Err: err}
			}
			r.headerSeen = true
			continue
		}

		tx, err := parseRecord(record)
		if err != nil {
			return domain.Transaction{}, &ParseError{Path: r.path, Line: line, Err: err}
		}
		return tx, nil
	}
}

func checkHeader(record []string) error {
	if len(record) < len(transactionHeader)-1 || len(record) > len(transactionHeader) {
		return fmt.Errorf("unexpected header %q", record)
	}
	for i, field := range record {
		if !strings.EqualFold(strings.TrimSpace(field), transactionHeader[i]) {
			return fmt.Errorf("unexpected header column %d %q, want %q", i+1, field, transactionHeader[i])
		}
	}
	return nil
}

func parseRecord(record []string) (domain.Transaction, error) {
	if len(record) < 3 || len(record) > 4 {
		return domain.Transaction{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(record))
	}

	kind, err := domain.ParseKind(record[0])
	if err != nil {
		return domain.Transaction{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(record[1]), 10, 16)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid client %q: %w", record[1], err)
	}

	id, err := strconv.ParseUint(strings.TrimSpace(record[2]), 10, 32)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid tx %q: %w", record[2], err)
	}

	tx := domain.Transaction{ID: uint32(id), Kind: kind, ClientID: uint16(client)}

	if len(record) == 4 {
		if raw := strings.TrimSpace(record[3]); raw != "" {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return domain.Transaction{}, fmt.Errorf("invalid amount %q: %w", record[3], err)
			}
			tx.Amount = decimal.NewNullDecimal(amount)
		}
	}

	return tx, nil
}
