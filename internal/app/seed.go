package app

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ranito1909/furniture-store/internal/domain/catalog"
	"github.com/ranito1909/furniture-store/internal/domain/inventory"
	"github.com/ranito1909/furniture-store/internal/seed"
)

// Seed stocks the ledger at startup: from a JSON Lines seed file when one is
// configured, otherwise from the built-in demo catalog when demo data is
// enabled. Returns the number of items stocked.
func Seed(ctx context.Context, ledger *inventory.Ledger, cfg *Config) (int, error) {
	if cfg.SeedFile != "" {
		return loadSeedFile(ctx, ledger, cfg.SeedFile)
	}
	if cfg.DemoData {
		return seedDemo(ctx, ledger)
	}
	return 0, nil
}

// loadSeedFile streams a seed file (optionally gzipped) line by line into the
// ledger. Blank lines are skipped; a malformed line aborts the load.
func loadSeedFile(ctx context.Context, ledger *inventory.Ledger, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "open seed file")
	}
	defer f.Close()

	var r io.Reader = bufio.NewReaderSize(f, 1<<20)
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(r)
		if err != nil {
			return 0, errors.Wrap(err, "gzip reader")
		}
		defer gz.Close()
		r = gz
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var n int
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		rec, err := seed.Decode(line)
		if err != nil {
			return n, errors.Wrapf(err, "seed line %d", n+1)
		}
		if err := ledger.AddItem(ctx, rec.Item(), rec.Quantity); err != nil {
			return n, errors.Wrapf(err, "stock %q", rec.Name)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, errors.Wrap(err, "read seed file")
	}

	zctx.From(ctx).Info("Catalog seeded from file",
		zap.String("path", path),
		zap.Int("items", n),
	)
	return n, nil
}

// seedDemo stocks a small built-in furniture catalog so a fresh server is
// usable without any seed file.
func seedDemo(ctx context.Context, ledger *inventory.Ledger) (int, error) {
	price := decimal.RequireFromString

	stock := []struct {
		item *catalog.Item
		qty  int
	}{
		{catalog.NewChair("Aria", "oak dining chair", price("129.90"), []float64{45, 52, 88}, "velvet"), 24},
		{catalog.NewChair("Bodo", "stackable kitchen chair", price("59.00"), []float64{44, 50, 82}, "cotton"), 40},
		{catalog.NewTable("Linnea", "extendable dining table", price("549.00"), []float64{180, 90, 75}, "oak"), 8},
		{catalog.NewSofa("Haven", "three-seat sofa", price("899.00"), []float64{210, 95, 85}, 3), 5},
		{catalog.NewLamp("Lumo", "adjustable floor lamp", price("89.50"), []float64{30, 30, 150}, "LED"), 18},
		{catalog.NewShelf("Stava", "wall-mounted bookshelf", price("74.90"), []float64{80, 24, 26}, true), 30},
	}

	for _, s := range stock {
		if err := ledger.AddItem(ctx, s.item, s.qty); err != nil {
			return 0, errors.Wrapf(err, "stock %q", s.item.Name)
		}
	}

	zctx.From(ctx).Info("Catalog seeded with demo data", zap.Int("items", len(stock)))
	return len(stock), nil
}
