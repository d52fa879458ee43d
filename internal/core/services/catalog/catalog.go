// Package catalog owns the model table: loading it from the backing CSV
// file, deriving tiers via the band scales, and swapping in fresh snapshots
// when the file changes on disk.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/strata-ai/strata/internal/core/domain"
	"github.com/strata-ai/strata/internal/core/services/bands"
	"go.uber.org/zap"
)

// Catalog file columns, in order.
const (
	colRank = iota
	colIdentifier
	colProvider
	colBand
	colStatus
	colContextWindow
	colInputCost
	colOutputCost
	colOrgLevel
	colSpecialization
	colRole
	colStrength
	colBenchmark
	colSourceURL
	colUpdated

	columnCount
)

// Capability weights for tier derivation. Benchmark dominates; context and
// price bands refine.
const (
	weightBenchmark = 0.60
	weightContext   = 0.25
	weightPrice     = 0.15
)

// Deriver recomputes a record's tier from its numeric attributes so declared
// tiers cannot drift from the band configuration that defines them.
type Deriver struct {
	Benchmark *bands.Scale // over benchmark score, 0-100
	Context   *bands.Scale // over context window tokens
	Price     *bands.Scale // over blended USD per 1M tokens
	Score     *bands.TierScale
}

// Tier folds the three banded attributes into one capability figure in [0,1]
// and classifies it on the tier scale.
func (d *Deriver) Tier(rec domain.ModelRecord) domain.Tier {
	capability := weightBenchmark*normalized(d.Benchmark, rec.BenchmarkScore) +
		weightContext*normalized(d.Context, float64(rec.ContextWindow)) +
		weightPrice*normalized(d.Price, rec.BlendedPrice())
	return d.Score.Tier(capability)
}

func normalized(s *bands.Scale, v float64) float64 {
	if s.Size() <= 1 {
		return 0
	}
	return float64(s.Index(v)) / float64(s.Size()-1)
}

type snapshot struct {
	records  []domain.ModelRecord
	modTime  time.Time
	loadedAt time.Time
}

// FileCatalog loads model records from a CSV file and caches them in memory.
// Readers always see a complete snapshot: reloads build a new record slice
// and publish it with a single atomic pointer swap.
type FileCatalog struct {
	path    string
	deriver *Deriver
	pinned  map[string]bool
	logger  *zap.Logger

	mu   sync.Mutex // serializes stale checks and reloads
	snap atomic.Pointer[snapshot]
}

// Open reads the catalog file and returns a handle. A missing or unreadable
// file is fatal here (wrapped ErrCatalogLoad), as is a file with zero valid
// rows (wrapped ErrCatalogEmpty) — later reload failures degrade instead.
func Open(path string, deriver *Deriver, pinned []string, logger *zap.Logger) (*FileCatalog, error) {
	c := &FileCatalog{
		path:    path,
		deriver: deriver,
		pinned:  make(map[string]bool, len(pinned)),
		logger:  logger,
	}
	for _, id := range pinned {
		c.pinned[id] = true
	}

	snap, err := c.loadFile()
	if err != nil {
		return nil, err
	}
	c.snap.Store(snap)

	logger.Info("Model catalog loaded",
		zap.String("path", path),
		zap.Int("models", len(snap.records)),
	)
	return c, nil
}

// Snapshot returns the current record table. The slice and its records are
// never mutated after publication; callers may iterate without locking.
func (c *FileCatalog) Snapshot() []domain.ModelRecord {
	return c.snap.Load().records
}

// LoadedAt reports when the current snapshot was read from disk.
func (c *FileCatalog) LoadedAt() time.Time {
	return c.snap.Load().loadedAt
}

// ReloadIfStale re-reads the file when its mtime differs from the loaded
// snapshot's. After a successful first load, any failure here keeps the last
// good snapshot and returns false: availability over freshness.
func (c *FileCatalog) ReloadIfStale() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fi, err := os.Stat(c.path)
	if err != nil {
		c.logger.Warn("Catalog stale check failed, keeping last snapshot",
			zap.String("path", c.path), zap.Error(err))
		return false, nil
	}

	if fi.ModTime().Equal(c.snap.Load().modTime) {
		return false, nil
	}

	snap, err := c.loadFile()
	if err != nil {
		c.logger.Warn("Catalog reload failed, keeping last snapshot",
			zap.String("path", c.path), zap.Error(err))
		return false, nil
	}

	c.snap.Store(snap)
	c.logger.Info("Model catalog reloaded",
		zap.String("path", c.path),
		zap.Int("models", len(snap.records)),
	)
	return true, nil
}

func (c *FileCatalog) loadFile() (*snapshot, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // row width validated per record so bad rows skip, not abort
	r.TrimLeadingSpace = true

	var records []domain.ModelRecord
	seen := make(map[string]bool)

	for line := 1; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.logger.Warn("Skipping unreadable catalog row",
				zap.Int("line", line), zap.Error(err))
			continue
		}
		if line == 1 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "rank") {
			continue // header
		}

		rec, err := parseRow(row)
		if err != nil {
			c.logger.Warn("Skipping malformed catalog row",
				zap.Int("line", line), zap.Error(err))
			continue
		}
		if seen[rec.Identifier] {
			c.logger.Warn("Skipping duplicate model identifier",
				zap.Int("line", line), zap.String("identifier", rec.Identifier))
			continue
		}
		seen[rec.Identifier] = true

		// Declared tiers must agree with the band configuration. Pinned
		// identifiers keep their declared tier.
		if derived := c.deriver.Tier(rec); derived != rec.Tier && !c.pinned[rec.Identifier] {
			c.logger.Debug("Re-tiered model to match band configuration",
				zap.String("identifier", rec.Identifier),
				zap.String("declared", rec.Tier.String()),
				zap.String("derived", derived.String()),
			)
			rec.Tier = derived
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCatalogEmpty, c.path)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Rank < records[j].Rank })

	return &snapshot{
		records:  records,
		modTime:  fi.ModTime(),
		loadedAt: time.Now(),
	}, nil
}

func parseRow(row []string) (domain.ModelRecord, error) {
	var rec domain.ModelRecord

	if len(row) < columnCount {
		return rec, fmt.Errorf("expected %d columns, got %d", columnCount, len(row))
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	rank, err := strconv.Atoi(row[colRank])
	if err != nil {
		return rec, fmt.Errorf("rank: %v", err)
	}

	if row[colIdentifier] == "" {
		return rec, fmt.Errorf("empty identifier")
	}
	if row[colProvider] == "" {
		return rec, fmt.Errorf("empty provider")
	}

	available, err := parseStatus(row[colStatus])
	if err != nil {
		return rec, err
	}

	ctxWindow, err := strconv.Atoi(row[colContextWindow])
	if err != nil || ctxWindow <= 0 {
		return rec, fmt.Errorf("context window %q must be a positive integer", row[colContextWindow])
	}

	inCost, err := strconv.ParseFloat(row[colInputCost], 64)
	if err != nil || inCost < 0 {
		return rec, fmt.Errorf("input cost %q must be a non-negative number", row[colInputCost])
	}
	outCost, err := strconv.ParseFloat(row[colOutputCost], 64)
	if err != nil || outCost < 0 {
		return rec, fmt.Errorf("output cost %q must be a non-negative number", row[colOutputCost])
	}

	tier, err := domain.ParseTier(row[colOrgLevel])
	if err != nil {
		return rec, fmt.Errorf("org level: %v", err)
	}

	spec, err := domain.ParseSpecialization(row[colSpecialization])
	if err != nil {
		return rec, fmt.Errorf("specialization: %v", err)
	}
	if spec == "" {
		spec = domain.SpecGeneral
	}

	bench, err := strconv.ParseFloat(row[colBenchmark], 64)
	if err != nil || bench < 0 || bench > 100 {
		return rec, fmt.Errorf("benchmark %q must be in [0,100]", row[colBenchmark])
	}

	var updated time.Time
	if row[colUpdated] != "" {
		updated, err = time.Parse("2006-01-02", row[colUpdated])
		if err != nil {
			return rec, fmt.Errorf("updated date: %v", err)
		}
	}

	return domain.ModelRecord{
		Rank:           rank,
		Identifier:     row[colIdentifier],
		Provider:       row[colProvider],
		Band:           row[colBand],
		Available:      available,
		ContextWindow:  ctxWindow,
		PriceInput:     inCost,
		PriceOutput:    outCost,
		Tier:           tier,
		Specialization: spec,
		Role:           row[colRole],
		Strength:       row[colStrength],
		BenchmarkScore: bench,
		SourceURL:      row[colSourceURL],
		Updated:        updated,
	}, nil
}

func parseStatus(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "available", "active", "true", "yes", "1":
		return true, nil
	case "unavailable", "inactive", "deprecated", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("unknown status %q", s)
}
