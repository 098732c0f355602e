package orders

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

// DefaultMaxAge is how long a loaded order table stays fresh before the
// backing file is re-read.
const DefaultMaxAge = 10 * time.Minute

// Record is one row of the reseller's order export. Every cell is exposed
// under both the literal header text and its canonical key, so lookups
// survive whitespace, NBSP and punctuation drift in the export headers.
type Record map[string]string

// Get returns the first non-empty value among the given keys.
func (r Record) Get(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

// Dataset caches the parsed order export in memory. Reloads are idempotent
// and last-writer-wins; a stale read during a concurrent reload is fine
// because the export is append-mostly reference data.
type Dataset struct {
	primaryPath  string
	fallbackPath string
	maxAge       time.Duration
	now          func() time.Time

	mu        sync.RWMutex
	records   []Record
	loadedAt  time.Time
	loadCount int
}

// NewDataset creates a dataset backed by the given CSV files. The primary
// path wins over the fallback when both exist.
func NewDataset(primaryPath, fallbackPath string, maxAge time.Duration) *Dataset {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Dataset{
		primaryPath:  primaryPath,
		fallbackPath: fallbackPath,
		maxAge:       maxAge,
		now:          time.Now,
	}
}

// WithClock overrides the time source. Used by tests to drive the
// freshness window deterministically.
func (d *Dataset) WithClock(now func() time.Time) *Dataset {
	d.now = now
	return d
}

// Records returns the cached table, reloading the backing file first if
// the cache is empty or older than the freshness window.
func (d *Dataset) Records() []Record {
	d.mu.Lock()
	if len(d.records) == 0 || d.now().Sub(d.loadedAt) > d.maxAge {
		d.reloadLocked()
	}
	recs := d.records
	d.mu.Unlock()
	return recs
}

// LoadCount reports how many times the backing file has been parsed.
func (d *Dataset) LoadCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadCount
}

// resolvePath prefers the primary export filename over the fallback.
func (d *Dataset) resolvePath() string {
	if _, err := os.Stat(d.primaryPath); err == nil {
		return d.primaryPath
	}
	return d.fallbackPath
}

func (d *Dataset) reloadLocked() {
	path := d.resolvePath()
	d.loadCount++
	d.loadedAt = d.now()

	f, err := os.Open(path)
	if err != nil {
		// Missing export is a normal state: downstream treats it as
		// "no orders", never as a request failure.
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Orders: cannot open %s: %v", path, err)
		}
		d.records = nil
		return
	}
	defer f.Close()

	records, err := parseTable(f)
	if err != nil {
		log.Printf("⚠️ Orders: cannot parse %s: %v", path, err)
		d.records = nil
		return
	}
	d.records = records
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// CanonicalKey lowercases a header cell and collapses every run of
// non-alphanumeric characters to a single underscore.
func CanonicalKey(name string) string {
	s := strings.ToLower(normalizeCell(name))
	s = nonAlnum.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// normalizeCell maps non-breaking spaces to regular spaces and trims.
func normalizeCell(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

// parseTable reads a comma-separated table whose first row is the header.
// Missing trailing columns default to the empty string.
func parseTable(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	canon := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = normalizeCell(h)
		canon[i] = CanonicalKey(h)
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		rec := make(Record, len(header)*2)
		for i := range header {
			val := ""
			if i < len(row) {
				val = normalizeCell(row[i])
			}
			rec[header[i]] = val
			if canon[i] != "" {
				rec[canon[i]] = val
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
