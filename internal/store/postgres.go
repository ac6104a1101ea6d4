package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/punchamoorthee/txledger/internal/domain"
	"github.com/shopspring/decimal"
)

// Balances are unbounded decimals in the ledger, so the columns carry no
// precision limit. Values are always written with four fractional digits.
const schema = `
CREATE TABLE IF NOT EXISTS account_snapshots (
	run_id     UUID        NOT NULL,
	client     INTEGER     NOT NULL,
	available  NUMERIC     NOT NULL,
	held       NUMERIC     NOT NULL,
	total      NUMERIC     NOT NULL,
	locked     BOOLEAN     NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, client)
)`

// SnapshotStore exports final account snapshots to Postgres. Each run is
// written under its own run id; nothing is ever read back into a ledger.
type SnapshotStore struct {
	Db *pgxpool.Pool
}

func NewSnapshotStore(ctx context.Context, connString string) (*SnapshotStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &SnapshotStore{Db: pool}, nil
}

func (s *SnapshotStore) Close() {
	s.Db.Close()
}

// EnsureSchema creates the snapshot table if it does not exist.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.Db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveSnapshot writes every account of a run in a single transaction.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, runID uuid.UUID, accounts []domain.Balances) error {
	tx, err := s.Db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, b := range accounts {
		batch.Queue(
			`INSERT INTO account_snapshots (run_id, client, available, held, total, locked, created_at)
			 VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6, $7)`,
			runID, int32(b.ClientID),
			domain.FormatAmount(b.Available), domain.FormatAmount(b.Held), domain.FormatAmount(b.Total),
			b.Locked, now,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("snapshot insert failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx commit failed: %w", err)
	}
	return nil
}

// LoadSnapshot returns the accounts exported under runID, sorted by client.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context, runID uuid.UUID) ([]domain.Balances, error) {
	rows, err := s.Db.Query(ctx,
		`SELECT client, available::text, held::text, total::text, locked
		 FROM account_snapshots WHERE run_id = $1 ORDER BY client`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Balances
	for rows.Next() {
		var (
			client                 int32
			available, held, total string
			b                      domain.Balances
		)
		if err := rows.Scan(&client, &available, &held, &total, &b.Locked); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		b.ClientID = uint16(client)
		if b.Available, err = decimal.NewFromString(available); err != nil {
			return nil, err
		}
		if b.Held, err = decimal.NewFromString(held); err != nil {
			return nil, err
		}
		if b.Total, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
