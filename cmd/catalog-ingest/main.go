// Command catalog-ingest merges supplier catalog exports into a single seed
// file for the store server.
//
// Each export is a gzipped JSON Lines file of stocked items. Supplier feeds
// are noisy, so an item makes it into the seed only when its name appears in
// at least two exports. The match is done in two passes: pass 1 builds a
// bloom filter per file, pass 2 re-streams each file and keeps records whose
// name hits another file's filter. Quantities are summed across sources; the
// record from the earliest file provides the item attributes.
package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/ranito1909/furniture-store/internal/seed"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	minSources    = 2
	progressEvery = 100_000
)

// fileResult holds the candidate records found in a single file during pass 2:
// the first record per item name whose name appears in another file's filter.
type fileResult struct {
	candidates map[string]seed.Record
}

func main() {
	var (
		dataDir string
		outPath string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.jsonl.gz catalog exports")
	flag.StringVar(&outPath, "out", "seed.jsonl", "merged seed output path (.gz for gzipped output)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, outPath); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, outPath string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob exports")
	}
	slices.Sort(files)
	if len(files) < minSources {
		return errors.Errorf("need at least %d export files in %s, found %d", minSources, dataDir, len(files))
	}

	// Pass 1: build bloom filters concurrently.
	slog.Info("pass 1: building bloom filters", slog.Int("files", len(files)))

	filters, err := buildBloomFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	// Pass 2: collect records whose name appears in 2+ files.
	slog.Info("pass 2: finding corroborated items")

	merged, err := mergeCorroborated(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "merge exports")
	}

	slog.Info("corroborated items found", slog.Int("count", len(merged)))

	if len(merged) == 0 {
		slog.Info("nothing to write")
		return nil
	}

	if err := writeSeed(outPath, merged); err != nil {
		return errors.Wrap(err, "write seed file")
	}

	slog.Info("seed written", slog.String("path", outPath), slog.Int("items", len(merged)))
	return nil
}

// buildBloomFilters creates one bloom filter of item names per file,
// concurrently.
func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFile(ctx, i, f, filters))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

func buildFilterForFile(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamExport(ctx, path, func(rec seed.Record) {
			filter.AddString(rec.Name)
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 1 progress",
					slog.Int("file", idx+1),
					slog.Uint64("records", count),
				)
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for file %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_records", count),
		)

		filters[idx] = filter
		return nil
	}
}

// mergeCorroborated re-streams each file, keeps records whose name appears in
// another file's filter, and merges them: the earliest file's record wins on
// attributes, quantities are summed across all sources.
func mergeCorroborated(ctx context.Context, files []string, filters []*bloom.BloomFilter) ([]seed.Record, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(findCandidatesInFile(ctx, i, f, filters, results))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	type item struct {
		rec  seed.Record
		mask uint
		qty  int
	}
	byName := make(map[string]*item)
	for idx, r := range results {
		for name, rec := range r.candidates {
			it, ok := byName[name]
			if !ok {
				it = &item{rec: rec}
				byName[name] = it
			}
			it.mask |= uint(1) << uint(idx)
			it.qty += rec.Quantity
		}
	}

	var merged []seed.Record
	for _, it := range byName {
		if bits.OnesCount(it.mask) < minSources {
			continue
		}
		rec := it.rec
		rec.Quantity = it.qty
		merged = append(merged, rec)
	}

	slices.SortFunc(merged, func(a, b seed.Record) int {
		return strings.Compare(a.Name, b.Name)
	})
	return merged, nil
}

func findCandidatesInFile(
	ctx context.Context,
	idx int,
	path string,
	filters []*bloom.BloomFilter,
	results []fileResult,
) func() error {
	return func() error {
		candidates := make(map[string]seed.Record)
		var count uint64

		if err := streamExport(ctx, path, func(rec seed.Record) {
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 2 progress",
					slog.Int("file", idx+1),
					slog.Uint64("records", count),
				)
			}

			// First line per name wins within a file.
			if _, seen := candidates[rec.Name]; seen {
				return
			}

			// Keep the record if its name appears in any OTHER file's filter.
			for j, f := range filters {
				if j == idx {
					continue
				}
				if f.TestString(rec.Name) {
					candidates[rec.Name] = rec
					break
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "scan file %d for candidates", idx+1)
		}

		slog.Info("pass 2 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_records", count),
			slog.Int("candidates", len(candidates)),
		)

		results[idx] = fileResult{candidates: candidates}
		return nil
	}
}

// streamExport opens a gzipped JSON Lines export and calls fn for each
// decoded record. Malformed lines are skipped with a warning; supplier
// exports regularly contain a few.
func streamExport(ctx context.Context, path string, fn func(rec seed.Record)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		rec, err := seed.Decode(line)
		if err != nil {
			slog.Warn("skipping malformed record",
				slog.String("file", filepath.Base(path)),
				slog.String("error", err.Error()),
			)
			continue
		}
		fn(rec)
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// writeSeed writes the merged records as JSON Lines, gzipped when the path
// ends in .gz.
func writeSeed(path string, records []seed.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() { _ = f.Close() }()

	var w io.Writer = f
	var gz *pgzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = pgzip.NewWriter(f)
		w = gz
	}
	bw := bufio.NewWriterSize(w, 1<<20)

	var e jx.Encoder
	for _, rec := range records {
		e.Reset()
		rec.Append(&e)
		if _, err := bw.Write(e.Bytes()); err != nil {
			return errors.Wrap(err, "write record")
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "write record")
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flush output")
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return errors.Wrap(err, "close gzip writer")
		}
	}
	return f.Close()
}
