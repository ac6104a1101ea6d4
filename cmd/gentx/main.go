package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"

	"github.com/punchamoorthee/txledger/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config holds the generator settings
var (
	clients  int
	count    int
	workload string
	seed     int64
	output   string
)

func init() {
	flag.IntVar(&clients, "clients", 1000, "Number of distinct clients")
	flag.IntVar(&count, "count", 100000, "Number of transactions to generate")
	flag.StringVar(&workload, "workload", "uniform", "Workload type: uniform | hotspot")
	flag.Int64Var(&seed, "seed", 1, "Random seed")
	flag.StringVar(&output, "o", "", "Output file (default stdout)")
}

func main() {
	flag.Parse()
	logger, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gentx: build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if clients < 1 || clients > 65536 || (workload != "uniform" && workload != "hotspot") {
		flag.Usage()
		os.Exit(2)
	}

	var out io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			logger.Fatal("unable to create output", zap.Error(err))
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	g := newGenerator(rand.New(rand.NewSource(seed)), clients, workload)
	if err := g.write(w, count); err != nil {
		logger.Fatal("generation failed", zap.Error(err))
	}
	if err := w.Flush(); err != nil {
		logger.Fatal("generation failed", zap.Error(err))
	}

	logger.Info("transactions generated",
		zap.Int("count", count),
		zap.Int("clients", clients),
		zap.String("workload", workload),
	)
}

// newLogger writes to stderr so generated rows on stdout stay clean.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

type generator struct {
	rand     *rand.Rand
	clients  int
	workload string
	nextID   uint32

	// funded tracks the deposit and withdrawal ids issued per client, so
	// disputes mostly reference something real.
	funded map[uint16][]uint32
}

func newGenerator(r *rand.Rand, clients int, workload string) *generator {
	return &generator{rand: r, clients: clients, workload: workload, funded: make(map[uint16][]uint32)}
}

func (g *generator) write(w io.Writer, n int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"type", "client", "tx", "amount"}); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		tx := g.next()
		amount := ""
		if tx.Amount.Valid {
			amount = tx.Amount.Decimal.StringFixed(domain.Precision)
		}
		err := cw.Write([]string{
			tx.Kind.String(),
			strconv.FormatUint(uint64(tx.ClientID), 10),
			strconv.FormatUint(uint64(tx.ID), 10),
			amount,
		})
		if err != nil {
			return fmt.Errorf("write transaction %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (g *generator) next() domain.Transaction {
	client := g.pickClient()
	ids := g.funded[client]

	roll := g.rand.Intn(100)
	switch {
	case len(ids) > 0 && roll < 6:
		return domain.NewReference(domain.Dispute, client, g.pick(ids))
	case len(ids) > 0 && roll < 10:
		return domain.NewReference(domain.Resolve, client, g.pick(ids))
	case len(ids) > 0 && roll < 11:
		return domain.NewReference(domain.Chargeback, client, g.pick(ids))
	case len(ids) > 0 && roll < 40:
		g.nextID++
		g.funded[client] = append(ids, g.nextID)
		return domain.NewWithdrawal(client, g.nextID, g.amount())
	default:
		g.nextID++
		g.funded[client] = append(ids, g.nextID)
		return domain.NewDeposit(client, g.nextID, g.amount())
	}
}

func (g *generator) pick(ids []uint32) uint32 {
	return ids[g.rand.Intn(len(ids))]
}

// amount returns a value between 0.0001 and 1000.0000.
func (g *generator) amount() decimal.Decimal {
	return decimal.New(g.rand.Int63n(10000000)+1, -domain.Precision)
}

func (g *generator) pickClient() uint16 {
	if g.workload == "hotspot" && g.clients > 1 {
		// Hotspot: 90% of traffic goes to clients 0 & 1
		if g.rand.Float32() < 0.90 {
			return uint16(g.rand.Intn(min(2, g.clients)))
		}
	}
	return uint16(g.rand.Intn(g.clients))
}
